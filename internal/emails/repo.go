package emails

import "context"

// HistoryRepo defines persistence operations for email history.
type HistoryRepo interface {
	Create(ctx context.Context, entry Entry) (int64, error)
	// List returns every entry ordered by id.
	List(ctx context.Context) ([]Entry, error)
}
