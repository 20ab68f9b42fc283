package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists for a key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving uploaded blobs.
// Keys are generated by the store and never derived from the display name
// beyond a sanitized extension.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
