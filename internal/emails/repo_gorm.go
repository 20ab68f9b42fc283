package emails

import (
	"context"
	"time"

	"gorm.io/gorm"

	"docintake/internal/shared/failure"
	"docintake/internal/shared/storage/db"
)

type historyRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	DocumentID  int64     `gorm:"not null;index"`
	Recipient   string    `gorm:"not null"`
	SentDate    time.Time `gorm:"not null"`
	Status      string    `gorm:"not null"`
	FailureKind string    `gorm:"not null;default:''"`
}

func (historyRow) TableName() string {
	return "email_history"
}

// GormRepo implements HistoryRepo on SQLite through gorm.
type GormRepo struct {
	DB *gorm.DB
}

// NewGormRepo ensures the email_history table exists and returns a repo.
func NewGormRepo(gdb *gorm.DB) (*GormRepo, error) {
	if err := db.AutoMigrate(gdb, &historyRow{}); err != nil {
		return nil, err
	}
	return &GormRepo{DB: gdb}, nil
}

// Create inserts a history entry.
func (r *GormRepo) Create(ctx context.Context, entry Entry) (int64, error) {
	row := historyRow{
		DocumentID:  entry.DocumentID,
		Recipient:   entry.Recipient,
		SentDate:    entry.SentDate,
		Status:      entry.Status,
		FailureKind: string(entry.FailureKind),
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// List returns all entries ordered by id.
func (r *GormRepo) List(ctx context.Context) ([]Entry, error) {
	var rows []historyRow
	if err := r.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, Entry{
			ID:          row.ID,
			DocumentID:  row.DocumentID,
			Recipient:   row.Recipient,
			SentDate:    row.SentDate,
			Status:      row.Status,
			FailureKind: failure.Kind(row.FailureKind),
		})
	}
	return out, nil
}

var _ HistoryRepo = (*GormRepo)(nil)
