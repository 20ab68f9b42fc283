package emails

import (
	"time"

	"docintake/internal/shared/failure"
)

// StatusSent is recorded for a delivered message.
const StatusSent = "sent"

// Entry is one send attempt. Entries are never updated.
type Entry struct {
	ID          int64
	DocumentID  int64
	Recipient   string
	SentDate    time.Time
	Status      string
	FailureKind failure.Kind
}

// FailedStatus renders the status stored for a failed attempt.
func FailedStatus(err error) string {
	return "failed: " + err.Error()
}
