package documents

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintake/internal/shared/storage/db"
)

func newGormRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo, err := NewGormRepo(gdb)
	require.NoError(t, err)
	return repo
}

func TestGormRepoRoundTrip(t *testing.T) {
	repo := newGormRepo(t)
	ctx := context.Background()
	uploaded := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	id1, err := repo.Create(ctx, Document{FileName: "a.txt", UploadDate: uploaded, Summary: "s1", StorageKey: "k1"})
	require.NoError(t, err)
	id2, err := repo.Create(ctx, Document{FileName: "a.txt", UploadDate: uploaded, Summary: "s2", StorageKey: "k2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	doc, err := repo.GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "s1", doc.Summary)
	assert.True(t, uploaded.Equal(doc.UploadDate))

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id1, docs[0].ID)
	assert.Equal(t, id2, docs[1].ID)
}

func TestGormRepoNotFound(t *testing.T) {
	repo := newGormRepo(t)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoAssignsSequentialIDs(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	for i := 1; i <= 3; i++ {
		id, err := repo.Create(ctx, Document{FileName: "x"})
		require.NoError(t, err)
		assert.Equal(t, int64(i), id)
	}
	_, err = repo.GetByID(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}
