package search

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/driftlabs/flowmcp/internal/docs/embedder"
	"github.com/driftlabs/flowmcp/internal/docs/vectorstore"
	"github.com/driftlabs/flowmcp/pkg/types"
)

const (
	// DefaultTopK is the result count when the request leaves it unset
	DefaultTopK = 5

	// MaxTopK caps a single search
	MaxTopK = 50

	// SnippetLength bounds the text returned per result
	SnippetLength = 400

	// DefaultCacheTTL is how long a cached response stays valid
	DefaultCacheTTL = 10 * time.Minute

	cacheEntries = 1000
)

// queryAttributes are requested from the vector store on every search
var queryAttributes = []string{"text", "title", "link", "chunk_index", "total_chunks", "source_url"}

// Request contains parameters for a docs search
type Request struct {
	Query     string
	Namespace string
	TopK      int

	UseCache bool
	CacheTTL time.Duration
}

// Response contains search results and metadata
type Response struct {
	Results      []types.DocResult
	TotalResults int
	Namespace    string
	Duration     time.Duration
	CacheHit     bool
}

// cacheEntry is a cached response with expiration time
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// Searcher answers semantic queries over ingested documentation
type Searcher struct {
	store    vectorstore.Store
	embedder embedder.Embedder
	cache    *lru.Cache[[32]byte, *cacheEntry]
	cacheMu  sync.RWMutex
}

// NewSearcher creates a Searcher backed by the given store and embedder
func NewSearcher(store vectorstore.Store, emb embedder.Embedder) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](cacheEntries)
	if err != nil {
		// Only possible with a non-positive size
		panic(fmt.Sprintf("failed to create query cache: %v", err))
	}

	return &Searcher{
		store:    store,
		embedder: emb,
		cache:    cache,
	}
}

// Search embeds the query and runs an ANN lookup against the namespace
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()

	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if req.UseCache {
		if cached := s.checkCache(req); cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	queryEmb, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.store.Query(ctx, req.Namespace, queryEmb.Vector, req.TopK, queryAttributes)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	response := &Response{
		Results:      shapeResults(matches),
		TotalResults: len(matches),
		Namespace:    req.Namespace,
		Duration:     time.Since(startTime),
	}

	if req.UseCache {
		s.storeInCache(req, response)
	}
	return response, nil
}

func (s *Searcher) validateRequest(req *Request) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if req.Namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}

	if req.TopK <= 0 {
		req.TopK = DefaultTopK
	}
	if req.TopK > MaxTopK {
		req.TopK = MaxTopK
	}
	if req.CacheTTL == 0 {
		req.CacheTTL = DefaultCacheTTL
	}
	return nil
}

// shapeResults converts store matches into ranked doc results
func shapeResults(matches []vectorstore.QueryMatch) []types.DocResult {
	results := make([]types.DocResult, len(matches))
	for i, match := range matches {
		result := types.DocResult{
			ChunkID:  match.ID,
			Rank:     i + 1,
			Score:    match.Score,
			Metadata: make(map[string]any),
		}
		for k, v := range match.Attributes {
			switch k {
			case "text":
				if text, ok := v.(string); ok {
					result.Snippet = makeSnippet(text)
				}
			case "title":
				result.Title, _ = v.(string)
			case "link":
				result.Link, _ = v.(string)
			default:
				result.Metadata[k] = v
			}
		}
		results[i] = result
	}
	return results
}

// makeSnippet truncates at a rune boundary, preferring the last word break
func makeSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLength {
		return text
	}

	cut := SnippetLength
	for i := SnippetLength; i > SnippetLength/2; i-- {
		if runes[i-1] == ' ' || runes[i-1] == '\n' {
			cut = i - 1
			break
		}
	}
	return string(runes[:cut]) + "..."
}

func computeQueryHash(req Request) [32]byte {
	key := fmt.Sprintf("%s|%s|%d", req.Query, req.Namespace, req.TopK)
	return sha256.Sum256([]byte(key))
}

// checkCache returns a copy of a live cached response, or nil on miss
func (s *Searcher) checkCache(req Request) *Response {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil
	}

	response := copyResponse(entry.response)
	s.cacheMu.RUnlock()
	return response
}

func (s *Searcher) storeInCache(req Request, response *Response) {
	entry := &cacheEntry{
		response:  copyResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// copyResponse deep-copies a response so cached entries stay immutable
func copyResponse(src *Response) *Response {
	if src == nil {
		return nil
	}

	dst := &Response{
		Results:      make([]types.DocResult, len(src.Results)),
		TotalResults: src.TotalResults,
		Namespace:    src.Namespace,
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
	}
	for i, result := range src.Results {
		copied := result
		if result.Score != nil {
			score := *result.Score
			copied.Score = &score
		}
		copied.Metadata = make(map[string]any, len(result.Metadata))
		for k, v := range result.Metadata {
			copied.Metadata[k] = v
		}
		dst.Results[i] = copied
	}
	return dst
}

// ClearCache empties the query cache
func (s *Searcher) ClearCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}
