package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/flowmcp/pkg/types"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testChunks(url string, n int) []types.Chunk {
	chunks := make([]types.Chunk, n)
	for i := range chunks {
		chunks[i] = types.Chunk{
			ID:            types.ChunkID(url, i),
			DocumentURL:   url,
			Title:         "Test Page",
			Text:          "chunk body",
			SequenceIndex: i,
			TotalChunks:   n,
		}
	}
	return chunks
}

func TestGet_MissOnEmptyCache(t *testing.T) {
	c := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "https://docs.example.dev/a", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutGet_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	url := "https://docs.example.dev/a"
	chunks := testChunks(url, 3)

	require.NoError(t, c.Put(ctx, url, 1, chunks))

	got, ok, err := c.Get(ctx, url, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, chunks, got)
}

func TestGet_VersionMismatchIsMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	url := "https://docs.example.dev/a"

	require.NoError(t, c.Put(ctx, url, 1, testChunks(url, 2)))

	_, ok, err := c.Get(ctx, url, 2)
	require.NoError(t, err)
	assert.False(t, ok, "a bumped cache version must miss every stored entry")

	// The old version still hits until overwritten
	_, ok, err = c.Get(ctx, url, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPut_OverwritesAcrossVersions(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	url := "https://docs.example.dev/a"

	require.NoError(t, c.Put(ctx, url, 1, testChunks(url, 2)))
	require.NoError(t, c.Put(ctx, url, 2, testChunks(url, 5)))

	// The row was overwritten, not duplicated: version 1 now misses
	_, ok, err := c.Get(ctx, url, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := c.Get(ctx, url, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 5)
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()
	url := "https://docs.example.dev/a"

	c, err := NewSQLiteCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, url, 1, testChunks(url, 4)))
	require.NoError(t, c.Close())

	reopened, err := NewSQLiteCache(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, ok, err := reopened.Get(ctx, url, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 4)
}

func TestStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "https://docs.example.dev/a", 1, testChunks("a", 1)))
	require.NoError(t, c.Put(ctx, "https://docs.example.dev/b", 1, testChunks("b", 1)))
	require.NoError(t, c.Put(ctx, "https://docs.example.dev/c", 2, testChunks("c", 1)))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, stats)
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "url", 1, testChunks("url", 2)))

	_, ok, err := c.Get(ctx, "url", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
