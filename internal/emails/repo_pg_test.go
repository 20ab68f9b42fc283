package emails

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"docintake/internal/shared/failure"
)

func TestPGRepoCreateIncludesFailureKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	entry := Entry{
		DocumentID:  1,
		Recipient:   "r@example.com",
		SentDate:    time.Now().UTC(),
		Status:      "failed: 535 bad credentials",
		FailureKind: failure.AuthFailure,
	}
	mock.ExpectQuery("INSERT INTO email_history").
		WithArgs(entry.DocumentID, entry.Recipient, entry.SentDate, entry.Status, "auth_failure").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := (&PGRepo{DB: db}).Create(context.Background(), entry)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("FROM email_history\\s+ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "recipient", "sent_date", "status", "failure_kind"}).
			AddRow(int64(1), int64(1), "a@example.com", now, "sent", "").
			AddRow(int64(2), int64(1), "b@example.com", now, "failed: timeout", "timeout"))

	entries, err := (&PGRepo{DB: db}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[1].FailureKind != failure.Timeout {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
