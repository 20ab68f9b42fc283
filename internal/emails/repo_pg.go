package emails

import (
	"context"
	"database/sql"

	"docintake/internal/shared/failure"
)

// PGRepo implements HistoryRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a history entry.
func (r *PGRepo) Create(ctx context.Context, entry Entry) (int64, error) {
	const query = `
INSERT INTO email_history (
    document_id,
    recipient,
    sent_date,
    status,
    failure_kind
) VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		query,
		entry.DocumentID,
		entry.Recipient,
		entry.SentDate,
		entry.Status,
		string(entry.FailureKind),
	).Scan(&id)
	return id, err
}

// List returns all entries ordered by id.
func (r *PGRepo) List(ctx context.Context) ([]Entry, error) {
	const query = `
SELECT id, document_id, recipient, sent_date, status, failure_kind
FROM email_history
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.Recipient, &e.SentDate, &e.Status, &kind); err != nil {
			return nil, err
		}
		e.FailureKind = failure.Kind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ HistoryRepo = (*PGRepo)(nil)
