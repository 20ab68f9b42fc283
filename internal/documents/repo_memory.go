package documents

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	docs   []Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Create appends doc with the next id.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = r.nextID
	r.nextID++
	r.docs = append(r.docs, doc)
	return doc.ID, nil
}

// GetByID returns a document by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.docs {
		if r.docs[i].ID == id {
			return r.docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// List returns a copy of all documents. Ids are assigned in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
