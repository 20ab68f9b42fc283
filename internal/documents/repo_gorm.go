package documents

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"docintake/internal/shared/storage/db"
)

type documentRow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Filename   string    `gorm:"not null"`
	UploadDate time.Time `gorm:"not null"`
	Summary    string    `gorm:"not null"`
	StorageKey string    `gorm:"not null"`
	MimeType   string    `gorm:"not null;default:''"`
	SizeBytes  int64     `gorm:"not null;default:0"`
}

func (documentRow) TableName() string {
	return "documents"
}

func (row documentRow) toDocument() Document {
	return Document{
		ID:         row.ID,
		FileName:   row.Filename,
		UploadDate: row.UploadDate,
		Summary:    row.Summary,
		StorageKey: row.StorageKey,
		MimeType:   row.MimeType,
		SizeBytes:  row.SizeBytes,
	}
}

// GormRepo implements DocumentsRepo on SQLite through gorm.
type GormRepo struct {
	DB *gorm.DB
}

// NewGormRepo ensures the documents table exists and returns a repo.
func NewGormRepo(gdb *gorm.DB) (*GormRepo, error) {
	if err := db.AutoMigrate(gdb, &documentRow{}); err != nil {
		return nil, err
	}
	return &GormRepo{DB: gdb}, nil
}

// Create inserts a new document.
func (r *GormRepo) Create(ctx context.Context, doc Document) (int64, error) {
	row := documentRow{
		Filename:   doc.FileName,
		UploadDate: doc.UploadDate,
		Summary:    doc.Summary,
		StorageKey: doc.StorageKey,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// GetByID fetches a document by id.
func (r *GormRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	var row documentRow
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return row.toDocument(), nil
}

// List returns all documents ordered by id.
func (r *GormRepo) List(ctx context.Context) ([]Document, error) {
	var rows []documentRow
	if err := r.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDocument())
	}
	return out, nil
}

var _ DocumentsRepo = (*GormRepo)(nil)
