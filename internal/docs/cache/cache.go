package cache

import (
	"context"
	"errors"

	"github.com/driftlabs/flowmcp/pkg/types"
)

var (
	// ErrNotFound is returned internally when a cache row doesn't exist
	ErrNotFound = errors.New("not found")
)

// Cache memoizes fetch+chunk results keyed by (url, cache_version). A lookup
// whose stored version differs from the requested one is a miss, which is the
// cache's only invalidation mechanism: operators bump the configured version
// and every document gets re-fetched and re-chunked on the next run.
type Cache interface {
	// Get returns the cached chunks for a URL, or ok=false on a miss.
	Get(ctx context.Context, url string, version int) (chunks []types.Chunk, ok bool, err error)

	// Put stores the chunks for a URL, overwriting any entry for the same
	// URL regardless of its version.
	Put(ctx context.Context, url string, version int, chunks []types.Chunk) error

	// Close releases the underlying store.
	Close() error
}

// Noop is a Cache that never hits, for runs that must bypass memoization.
type Noop struct{}

// NewNoop creates a cache that misses every lookup and drops every write
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Get(context.Context, string, int) ([]types.Chunk, bool, error) {
	return nil, false, nil
}

func (*Noop) Put(context.Context, string, int, []types.Chunk) error {
	return nil
}

func (*Noop) Close() error {
	return nil
}
