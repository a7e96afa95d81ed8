package types

import "errors"

// DocResult represents a single documentation search result returned to an
// MCP client.
type DocResult struct {
	// Identification
	ChunkID string
	Rank    int // Position in result set (1-based)

	// Scoring: cosine distance normalized by the vector store, lower is closer.
	// Nil when the store did not return a distance for the row.
	Score *float64

	// Content
	Snippet string
	Title   string
	Link    string

	// Metadata carries the chunk's ingestion metadata (chunk_index,
	// total_chunks, source_url) when the store returns it.
	Metadata map[string]any
}

// Validate checks if the search result is valid
func (r *DocResult) Validate() error {
	if r.ChunkID == "" {
		return ErrMissingChunkID
	}
	if r.Rank < 1 {
		return ErrInvalidRank
	}
	if r.Snippet == "" {
		return ErrEmptySnippet
	}
	return nil
}

var (
	ErrInvalidRank  = errors.New("rank must be >= 1")
	ErrEmptySnippet = errors.New("snippet cannot be empty")
)
