package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/driftlabs/flowmcp/pkg/types"
)

const (
	// RequestTimeout bounds every outbound docs fetch
	RequestTimeout = 30 * time.Second

	// DefaultRequestsPerSecond throttles page fetches so a full-corpus run
	// stays polite to the docs host even with a large worker pool
	DefaultRequestsPerSecond = 10
	// DefaultBurst allows short bursts up to the worker pool size
	DefaultBurst = 10

	// MaxPageBytes caps a single page body; docs pages are far smaller
	MaxPageBytes = 4 << 20
)

var (
	ErrFetchFailed  = errors.New("page fetch failed")
	ErrEmptyPage    = errors.New("page has no content")
	ErrEmptySitemap = errors.New("sitemap contains no URLs")
)

// titlePattern matches the first markdown H1 heading in a page
var titlePattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// Fetcher retrieves documentation pages as markdown. Pages are requested with
// Accept: text/plain, which the docs host answers with the page's markdown
// source rather than rendered HTML.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Fetcher with the default rate limit and timeout
func New() *Fetcher {
	return NewWithRate(DefaultRequestsPerSecond, DefaultBurst)
}

// NewWithRate creates a Fetcher throttled to the given request rate. The
// limiter is shared by all callers, so concurrent pipeline workers contend on
// one token bucket.
func NewWithRate(requestsPerSecond float64, burst int) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// FetchPage downloads a single documentation page and extracts its title.
// A failure here is recoverable at the run level: the driver records it and
// moves on to the next document.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*types.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetchFailed, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}

	content := string(body)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPage, pageURL)
	}

	return &types.Document{
		URL:       pageURL,
		Title:     extractTitle(content, pageURL),
		RawText:   content,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// extractTitle returns the first markdown H1 heading, falling back to the
// last URL path segment
func extractTitle(content, pageURL string) string {
	if m := titlePattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	trimmed := strings.TrimRight(pageURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
