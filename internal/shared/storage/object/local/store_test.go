package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintake/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "report.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)
	assert.True(t, strings.HasPrefix(mimeType, "text/plain"))
	assert.True(t, strings.HasSuffix(key, ".txt"))
	assert.NotContains(t, key, "report")

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, store.Delete(ctx, key))
}

func TestSaveSameNameGetsDistinctKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	k1, _, _, err := store.Save(ctx, "report.txt", strings.NewReader("first"))
	require.NoError(t, err)
	k2, _, _, err := store.Save(ctx, "report.txt", strings.NewReader("second"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	rc, err := store.Open(ctx, k1)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "first", string(data))
}

func TestSaveIgnoresTraversalInName(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	key, _, _, err := store.Save(context.Background(), "../../escape.sh", strings.NewReader("#!/bin/sh"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, key))
	assert.NotContains(t, key, "..")
}

func TestOpenMissingAndInvalid(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.Open(ctx, "does-not-exist.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, object.ErrNotFound))

	_, err = store.Open(ctx, "../outside")
	require.Error(t, err)
	assert.False(t, errors.Is(err, object.ErrNotFound))
}

func TestSaveHonorsCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := store.Save(ctx, "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
