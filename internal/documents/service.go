package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"docintake/internal/llm"
	"docintake/internal/shared/metrics"
	"docintake/internal/shared/storage/object"
	"docintake/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
	LLM   llm.Client
	Now   func() time.Time
}

// Upload stores the blob under a generated key, summarizes its first bytes and
// records the document. A summarization failure is not an error: the document
// is stored with the failure placeholder. If the insert fails the blob is
// removed again.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	head := &prefixBuffer{limit: llm.SummaryInputBytes}
	limited := io.LimitReader(r, MaxUploadBytes+1)
	storageKey, size, mimeType, err := s.Store.Save(ctx, fileName, io.TeeReader(limited, head))
	if err != nil {
		return Document{}, fmt.Errorf("save blob: %w", err)
	}
	if size > MaxUploadBytes {
		s.discard(storageKey)
		return Document{}, ErrTooLarge
	}

	summary := llm.Summarize(ctx, s.LLM, head.Bytes())
	metrics.ObserveSummaryDuration(summary.Duration)
	if !summary.OK() {
		metrics.IncSummaryFailed()
		telemetry.Warn("summary.failed", map[string]any{
			"filename":    fileName,
			"storage_key": storageKey,
			"kind":        string(summary.Failure.Kind),
			"error":       summary.Failure.Err,
		})
	}

	doc := Document{
		FileName:   fileName,
		UploadDate: s.now(),
		Summary:    summary.Stored(),
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  size,
	}
	id, err := s.Repo.Create(ctx, doc)
	if err != nil {
		s.discard(storageKey)
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	doc.ID = id

	metrics.IncDocumentsUploaded()
	telemetry.Info("upload.complete", map[string]any{
		"document_id": id,
		"filename":    fileName,
		"size_bytes":  size,
		"mime_type":   mimeType,
		"summary_ok":  summary.OK(),
	})
	return doc, nil
}

// Get returns a document by id.
func (s *Service) Get(ctx context.Context, id int64) (Document, error) {
	if id <= 0 {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all documents ordered by id.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// OpenFile returns the document and a reader over its stored blob. The caller
// closes the reader.
func (s *Service) OpenFile(ctx context.Context, id int64) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("blob.missing", map[string]any{
				"document_id": doc.ID,
				"storage_key": doc.StorageKey,
			})
			return doc, nil, ErrFileMissing
		}
		return doc, nil, err
	}
	return doc, rc, nil
}

func (s *Service) discard(storageKey string) {
	// The request context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Error("blob.cleanup.failed", map[string]any{
			"storage_key": storageKey,
			"error":       err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// prefixBuffer keeps the first limit bytes written to it and discards the rest.
type prefixBuffer struct {
	limit int
	buf   []byte
}

func (p *prefixBuffer) Write(b []byte) (int, error) {
	if room := p.limit - len(p.buf); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		p.buf = append(p.buf, b[:room]...)
	}
	return len(b), nil
}

func (p *prefixBuffer) Bytes() []byte {
	return p.buf
}
