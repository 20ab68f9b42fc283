package emails

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"docintake/internal/documents"
	"docintake/internal/mail"
	"docintake/internal/shared/failure"
	"docintake/internal/shared/metrics"
	"docintake/internal/shared/telemetry"
)

var errAttachmentMissing = errors.New("attachment missing")

// DocumentSource resolves documents and their stored blobs.
type DocumentSource interface {
	Get(ctx context.Context, id int64) (documents.Document, error)
	OpenFile(ctx context.Context, id int64) (documents.Document, io.ReadCloser, error)
}

// Service sends documents by email and records every attempt.
type Service struct {
	Docs   DocumentSource
	Mailer mail.Sender
	Repo   HistoryRepo
	From   string
	Now    func() time.Time
}

// Send emails the document to recipient and records exactly one history entry.
// Delivery failures are recorded, not returned; only an unknown document or a
// failed history insert is an error.
func (s *Service) Send(ctx context.Context, documentID int64, recipient, message string) (Entry, error) {
	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		DocumentID: doc.ID,
		Recipient:  recipient,
		Status:     StatusSent,
	}
	if sendErr := s.deliver(ctx, doc, recipient, message); sendErr != nil {
		entry.Status = FailedStatus(sendErr)
		entry.FailureKind = failure.KindOf(sendErr)
		metrics.IncEmailsFailed()
		telemetry.Warn("email.failed", map[string]any{
			"document_id": doc.ID,
			"recipient":   recipient,
			"kind":        string(entry.FailureKind),
			"error":       sendErr,
		})
	} else {
		metrics.IncEmailsSent()
		telemetry.Info("email.sent", map[string]any{
			"document_id": doc.ID,
			"recipient":   recipient,
		})
	}
	entry.SentDate = s.now()

	id, err := s.Repo.Create(ctx, entry)
	if err != nil {
		return Entry{}, fmt.Errorf("insert email history: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// History returns all send attempts ordered by id.
func (s *Service) History(ctx context.Context) ([]Entry, error) {
	return s.Repo.List(ctx)
}

func (s *Service) deliver(ctx context.Context, doc documents.Document, recipient, message string) error {
	if s.Mailer == nil {
		return failure.New(failure.DependencyUnavailable, errors.New("mailer not configured"))
	}

	_, rc, err := s.Docs.OpenFile(ctx, doc.ID)
	if errors.Is(err, documents.ErrFileMissing) {
		return failure.New(failure.Unknown, errAttachmentMissing)
	}
	if err != nil {
		return failure.New(failure.Unknown, fmt.Errorf("open attachment: %w", err))
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return failure.New(failure.Unknown, fmt.Errorf("read attachment: %w", err))
	}

	return s.Mailer.Send(ctx, mail.Message{
		From:    s.From,
		To:      recipient,
		Subject: mail.DocumentSubject(doc.FileName),
		Body:    mail.DocumentBody(message, doc.Summary),
		Attachments: []mail.Attachment{
			{FileName: doc.FileName, Content: content},
		},
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
