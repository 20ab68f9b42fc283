package emails

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of HistoryRepo.
type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	entries []Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Create appends entry with the next id.
func (r *MemoryRepo) Create(ctx context.Context, entry Entry) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	return entry.ID, nil
}

// List returns a copy of all entries in id order.
func (r *MemoryRepo) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

var _ HistoryRepo = (*MemoryRepo)(nil)
