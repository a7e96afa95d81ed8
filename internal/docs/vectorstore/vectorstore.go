package vectorstore

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrMissingAPIKey  = errors.New("vector store API key not set")
	ErrEmptyNamespace = errors.New("namespace cannot be empty")
	ErrUpsertFailed   = errors.New("vector store upsert failed")
	ErrQueryFailed    = errors.New("vector store query failed")
	ErrDeleteFailed   = errors.New("vector store delete failed")
	ErrInvalidRow     = errors.New("invalid row")
)

// DistanceMetric used for every namespace this module writes
const DistanceMetric = "cosine_distance"

// MaxUpsertBatch bounds a single write request
const MaxUpsertBatch = 256

// Row is one upsertable record. The ID is the deterministic chunk ID, so
// re-ingesting the same document overwrites rows in place instead of
// accumulating duplicates.
type Row struct {
	ID     string
	Vector []float32
	Text   string
	Title  string
	Link   string

	// Metadata carries chunk_index, total_chunks and source_url
	Metadata map[string]any
}

// Validate checks that a row can be written
func (r Row) Validate() error {
	if r.ID == "" {
		return errors.New("row ID cannot be empty")
	}
	if len(r.Vector) == 0 {
		return errors.New("row vector cannot be empty")
	}
	return nil
}

// QueryMatch is one approximate-nearest-neighbor result
type QueryMatch struct {
	ID         string
	Score      *float64 // Distance; nil when the store omits it
	Attributes map[string]any
}

// Store writes and queries embedded chunks by namespace
type Store interface {
	// Upsert writes rows into the namespace, overwriting rows with the
	// same ID. Returns the number of rows written.
	Upsert(ctx context.Context, namespace string, rows []Row) (int, error)

	// Query runs an ANN search and returns up to topK matches ordered by
	// ascending distance
	Query(ctx context.Context, namespace string, vector []float32, topK int, includeAttrs []string) ([]QueryMatch, error)

	// DeleteAll removes every row in the namespace
	DeleteAll(ctx context.Context, namespace string) error
}
