package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) (int64, error) {
	const query = `
INSERT INTO documents (
    filename,
    upload_date,
    summary,
    storage_key,
    mime_type,
    size_bytes
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		query,
		doc.FileName,
		doc.UploadDate,
		doc.Summary,
		doc.StorageKey,
		doc.MimeType,
		doc.SizeBytes,
	).Scan(&id)
	return id, err
}

// GetByID fetches a document by id.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	const query = `
SELECT id, filename, upload_date, summary, storage_key, mime_type, size_bytes
FROM documents
WHERE id = $1`
	var doc Document
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.FileName,
		&doc.UploadDate,
		&doc.Summary,
		&doc.StorageKey,
		&doc.MimeType,
		&doc.SizeBytes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns all documents ordered by id.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	const query = `
SELECT id, filename, upload_date, summary, storage_key, mime_type, size_bytes
FROM documents
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.FileName,
			&doc.UploadDate,
			&doc.Summary,
			&doc.StorageKey,
			&doc.MimeType,
			&doc.SizeBytes,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ DocumentsRepo = (*PGRepo)(nil)
