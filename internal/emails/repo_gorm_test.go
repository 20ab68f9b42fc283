package emails

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintake/internal/shared/failure"
	"docintake/internal/shared/storage/db"
)

func TestGormRepoRoundTrip(t *testing.T) {
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo, err := NewGormRepo(gdb)
	require.NoError(t, err)
	ctx := context.Background()

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	sent := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	_, err = repo.Create(ctx, Entry{DocumentID: 1, Recipient: "a@example.com", SentDate: sent, Status: StatusSent})
	require.NoError(t, err)
	id, err := repo.Create(ctx, Entry{DocumentID: 1, Recipient: "b@example.com", SentDate: sent, Status: "failed: x", FailureKind: failure.Unknown})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	entries, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a@example.com", entries[0].Recipient)
	assert.Equal(t, failure.Unknown, entries[1].FailureKind)
	assert.True(t, sent.Equal(entries[1].SentDate))
}
