package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/flowmcp/internal/docs/cache"
	"github.com/driftlabs/flowmcp/internal/docs/embedder"
	"github.com/driftlabs/flowmcp/internal/docs/fetcher"
	"github.com/driftlabs/flowmcp/internal/docs/vectorstore"
	"github.com/driftlabs/flowmcp/pkg/types"
)

const testNamespace = "TESTING-docs-v1"

// docsSite serves a sitemap plus markdown pages, and counts page fetches
type docsSite struct {
	srv     *httptest.Server
	pages   map[string]string // path -> markdown body
	failing map[string]bool   // paths that return 500
}

func newDocsSite(t *testing.T, pages map[string]string) *docsSite {
	t.Helper()
	site := &docsSite{pages: pages, failing: make(map[string]bool)}

	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><urlset>`)
		for path := range pages {
			fmt.Fprintf(&sb, "<url><loc>%s%s</loc></url>", site.srv.URL, path)
		}
		sb.WriteString("</urlset>")
		_, _ = w.Write([]byte(sb.String()))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if site.failing[r.URL.Path] {
			http.Error(w, "upstream error", http.StatusInternalServerError)
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})

	site.srv = httptest.NewServer(mux)
	t.Cleanup(site.srv.Close)
	return site
}

func (s *docsSite) sitemapURL() string {
	return s.srv.URL + "/sitemap.xml"
}

func (s *docsSite) pageURL(path string) string {
	return s.srv.URL + path
}

func newTestPipeline(t *testing.T, c cache.Cache) (*Pipeline, *embedder.LocalProvider, *vectorstore.MemoryStore) {
	t.Helper()
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	store := vectorstore.NewMemoryStore()
	return New(fetcher.New(), c, emb, store), emb, store
}

func TestRun_IngestsAllPages(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/guide":    "# Guide\n\nHow workflows run.",
		"/concepts": "# Concepts\n\nFlows, runs and pools.",
	})

	p, _, store := newTestPipeline(t, cache.NewNoop())
	stats, err := p.Run(context.Background(), site.sitemapURL(), &Options{
		Namespace:    testNamespace,
		CacheVersion: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Zero(t, stats.Skipped)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, 2, stats.ChunksCreated)
	assert.Equal(t, 2, stats.ChunksUpserted)
	assert.Equal(t, 2, store.Count(testNamespace))
	assert.Equal(t, []string{testNamespace}, store.Namespaces())
}

func TestRun_RowsCarryChunkMetadata(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/guide": "# Guide\n\nShort page.",
	})

	p, _, store := newTestPipeline(t, cache.NewNoop())
	_, err := p.Run(context.Background(), site.sitemapURL(), &Options{
		Namespace:    testNamespace,
		CacheVersion: 1,
	})
	require.NoError(t, err)

	pageURL := site.pageURL("/guide")
	matches, err := store.Query(context.Background(), testNamespace, make([]float32, embedder.LocalDimension), 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, types.ChunkID(pageURL, 0), matches[0].ID)
	assert.Equal(t, "Guide", matches[0].Attributes["title"])
	assert.Equal(t, pageURL, matches[0].Attributes["link"])
	assert.Equal(t, pageURL, matches[0].Attributes["source_url"])
	assert.Equal(t, 0, matches[0].Attributes["chunk_index"])
	assert.Equal(t, 1, matches[0].Attributes["total_chunks"])
}

func TestRun_CachedRunMakesNoEmbeddingCalls(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/a": "# A\n\ncontent a",
		"/b": "# B\n\ncontent b",
	})

	sqlCache, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = sqlCache.Close() }()

	p, emb, store := newTestPipeline(t, sqlCache)
	opts := &Options{Namespace: testNamespace, CacheVersion: 1}

	stats, err := p.Run(context.Background(), site.sitemapURL(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	callsAfterFirst := emb.BatchCalls()
	assert.Positive(t, callsAfterFirst)

	// Second run under the same cache version touches nothing
	stats, err = p.Run(context.Background(), site.sitemapURL(), opts)
	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, callsAfterFirst, emb.BatchCalls(), "cached pages must not be re-embedded")
	assert.Equal(t, 2, store.Count(testNamespace))
}

func TestRun_CacheVersionBumpForcesReingestion(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/a": "# A\n\ncontent a",
	})

	sqlCache, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = sqlCache.Close() }()

	p, emb, _ := newTestPipeline(t, sqlCache)

	_, err = p.Run(context.Background(), site.sitemapURL(), &Options{Namespace: testNamespace, CacheVersion: 1})
	require.NoError(t, err)
	callsAfterFirst := emb.BatchCalls()

	stats, err := p.Run(context.Background(), site.sitemapURL(), &Options{Namespace: testNamespace, CacheVersion: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed, "a new cache version must miss on every page")
	assert.Zero(t, stats.Skipped)
	assert.Greater(t, emb.BatchCalls(), callsAfterFirst)
}

func TestRun_PageFailureDoesNotAbortRun(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/ok-one": "# One\n\nfine",
		"/broken": "# Broken\n\nnever served",
		"/ok-two": "# Two\n\nalso fine",
	})
	site.failing["/broken"] = true

	p, _, store := newTestPipeline(t, cache.NewNoop())
	stats, err := p.Run(context.Background(), site.sitemapURL(), &Options{
		Namespace:    testNamespace,
		CacheVersion: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.ErrorMessages, 1)
	assert.Contains(t, stats.ErrorMessages[0], "/broken")
	assert.Equal(t, 2, store.Count(testNamespace))
}

func TestRun_FailedPageIsNotCached(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/flaky": "# Flaky\n\nrecovers later",
	})
	site.failing["/flaky"] = true

	sqlCache, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = sqlCache.Close() }()

	p, _, _ := newTestPipeline(t, sqlCache)
	opts := &Options{Namespace: testNamespace, CacheVersion: 1}

	stats, err := p.Run(context.Background(), site.sitemapURL(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)

	// Page recovers; the next run must retry it rather than see a hit
	site.failing["/flaky"] = false
	stats, err = p.Run(context.Background(), site.sitemapURL(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Zero(t, stats.Failed)
}

func TestRun_ResetClearsNamespaceFirst(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/a": "# A\n\ncontent",
	})

	p, _, store := newTestPipeline(t, cache.NewNoop())
	_, err := store.Upsert(context.Background(), testNamespace, []vectorstore.Row{
		{ID: "stale-row", Vector: []float32{1}},
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), site.sitemapURL(), &Options{
		Namespace:    testNamespace,
		CacheVersion: 1,
		Reset:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.Count(testNamespace), "stale rows must be gone after a reset run")
}

func TestRun_RequiresNamespace(t *testing.T) {
	p, _, _ := newTestPipeline(t, cache.NewNoop())

	_, err := p.Run(context.Background(), "http://unused/sitemap.xml", nil)
	assert.Error(t, err)

	_, err = p.Run(context.Background(), "http://unused/sitemap.xml", &Options{})
	assert.Error(t, err)
}

func TestRun_SitemapFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, _, _ := newTestPipeline(t, cache.NewNoop())
	_, err := p.Run(context.Background(), srv.URL+"/sitemap.xml", &Options{
		Namespace:    testNamespace,
		CacheVersion: 1,
	})
	assert.Error(t, err)
}

func TestRun_ReingestionIsIdempotent(t *testing.T) {
	site := newDocsSite(t, map[string]string{
		"/a": "# A\n\ncontent a",
		"/b": "# B\n\ncontent b",
	})

	p, _, store := newTestPipeline(t, cache.NewNoop())
	opts := &Options{Namespace: testNamespace, CacheVersion: 1}

	for i := 0; i < 3; i++ {
		_, err := p.Run(context.Background(), site.sitemapURL(), opts)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, store.Count(testNamespace), "deterministic IDs must overwrite, not accumulate")
}
