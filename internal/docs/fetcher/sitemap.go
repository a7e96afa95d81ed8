package fetcher

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

// MaxSitemapBytes caps the sitemap body size
const MaxSitemapBytes = 16 << 20

// urlset mirrors the sitemap.org XML schema; only <loc> is consumed
type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// FetchSitemap retrieves the sitemap and returns the deduplicated page URLs
// in document order. A sitemap failure is fatal to the run: without it there
// are no documents to process.
func (f *Fetcher) FetchSitemap(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sitemap: %s returned %d", sitemapURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxSitemapBytes))
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}

	var parsed urlset
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	// Sitemaps occasionally repeat entries; dedupe while preserving order
	seen := make(map[string]struct{}, len(parsed.URLs))
	urls := make([]string, 0, len(parsed.URLs))
	for _, entry := range parsed.URLs {
		if entry.Loc == "" {
			continue
		}
		if _, ok := seen[entry.Loc]; ok {
			continue
		}
		seen[entry.Loc] = struct{}{}
		urls = append(urls, entry.Loc)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySitemap, sitemapURL)
	}
	return urls, nil
}
