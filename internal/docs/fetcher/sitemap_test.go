package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sitemapTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
%s</urlset>`

func sitemapBody(locs ...string) string {
	entries := ""
	for _, loc := range locs {
		entries += fmt.Sprintf("  <url><loc>%s</loc></url>\n", loc)
	}
	return fmt.Sprintf(sitemapTemplate, entries)
}

func TestFetchSitemap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sitemapBody(
			"https://docs.example.dev/intro",
			"https://docs.example.dev/concepts/flows",
			"https://docs.example.dev/concepts/deployments",
		)))
	}))
	defer server.Close()

	f := New()
	urls, err := f.FetchSitemap(context.Background(), server.URL+"/sitemap.xml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://docs.example.dev/intro",
		"https://docs.example.dev/concepts/flows",
		"https://docs.example.dev/concepts/deployments",
	}, urls)
}

func TestFetchSitemap_DeduplicatesPreservingOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sitemapBody(
			"https://docs.example.dev/a",
			"https://docs.example.dev/b",
			"https://docs.example.dev/a",
		)))
	}))
	defer server.Close()

	f := New()
	urls, err := f.FetchSitemap(context.Background(), server.URL+"/sitemap.xml")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://docs.example.dev/a", "https://docs.example.dev/b"}, urls)
}

func TestFetchSitemap_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sitemapBody()))
	}))
	defer server.Close()

	f := New()
	_, err := f.FetchSitemap(context.Background(), server.URL+"/sitemap.xml")
	assert.ErrorIs(t, err, ErrEmptySitemap)
}

func TestFetchSitemap_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	f := New()
	_, err := f.FetchSitemap(context.Background(), server.URL+"/sitemap.xml")
	assert.Error(t, err)
}

func TestFetchSitemap_MalformedXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<urlset><url><loc>unclosed"))
	}))
	defer server.Close()

	f := New()
	_, err := f.FetchSitemap(context.Background(), server.URL+"/sitemap.xml")
	assert.Error(t, err)
}
