package corpus

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSqliteStore(t *testing.T) *SqliteStore {
	t.Helper()
	store, err := NewSqliteStore(SqliteOptions{Path: filepath.Join(t.TempDir(), "corpus.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSqliteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSqliteStore(t)
	a := Article{
		ID:          "a1",
		Title:       "First",
		URL:         "https://example.com/1",
		PublishedAt: time.Date(2026, 4, 28, 10, 0, 0, 0, time.UTC),
		Summary:     "s1",
	}

	require.NoError(t, store.Upsert(ctx, a))

	got, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.URL, got.URL)
	assert.True(t, a.PublishedAt.Equal(got.PublishedAt))
	assert.Equal(t, a.Summary, got.Summary)

	byTitle, err := store.GetByTitle(ctx, "First")
	require.NoError(t, err)
	assert.Equal(t, "a1", byTitle.ID)
}

func TestSqliteStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestSqliteStore(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByTitle(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.SetSummary(ctx, "missing", "s"), ErrNotFound)
}

func TestSqliteStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestSqliteStore(t)
	a := Article{ID: "a1", Title: "First", PublishedAt: time.Now().UTC()}
	require.NoError(t, store.Upsert(ctx, a))

	a.Title = "Renamed"
	require.NoError(t, store.Upsert(ctx, a))

	got, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSqliteStoreListMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestSqliteStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, Article{ID: "old", Title: "Old", PublishedAt: base.Add(-48 * time.Hour)}))
	require.NoError(t, store.Upsert(ctx, Article{ID: "new", Title: "New", PublishedAt: base}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestSqliteStoreSetSummary(t *testing.T) {
	ctx := context.Background()
	store := newTestSqliteStore(t)
	require.NoError(t, store.Upsert(ctx, Article{ID: "a1", Title: "First", PublishedAt: time.Now().UTC()}))

	require.NoError(t, store.SetSummary(ctx, "a1", "a synopsis"))

	got, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a synopsis", got.Summary)
}
