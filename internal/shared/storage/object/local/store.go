package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docintake/internal/shared/storage/object"
	"docintake/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to disk under a generated key.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", 0, "", fmt.Errorf("mkdir: %w", err)
	}

	key := uuid.NewString() + util.StorageExt(fileName)
	fullPath := filepath.Join(s.baseDir, key)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		_ = os.Remove(fullPath)
		return "", 0, "", fmt.Errorf("read sniff: %w", readErr)
	}

	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			_ = os.Remove(fullPath)
			return "", 0, "", fmt.Errorf("write sniff: %w", err)
		}
		size += int64(n)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(fullPath)
		return "", 0, "", fmt.Errorf("write body: %w", err)
	}
	size += written

	return key, size, mimeType, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", object.ErrNotFound, storageKey)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a stored object. Deleting a missing object is not an error.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	fullPath, err := s.resolve(ctx, storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) resolve(ctx context.Context, storageKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(storageKey)
	if storageKey == "" || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
