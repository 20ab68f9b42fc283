package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	// Create inserts doc and returns the storage-assigned id.
	Create(ctx context.Context, doc Document) (int64, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	// List returns every document ordered by id.
	List(ctx context.Context) ([]Document, error)
}
