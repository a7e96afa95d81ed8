package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// TokensPerChar is the heuristic for estimating tokens (chars/4)
	TokensPerChar = 4

	// ChunkIDLength is the number of hex characters in a chunk ID
	ChunkIDLength = 16
)

// Chunk is a bounded-length text segment derived from a source document, the
// unit of embedding and vector-store storage.
type Chunk struct {
	// ID is derived from the document URL and sequence index, so re-ingesting
	// an unchanged document overwrites rather than duplicates its records.
	ID          string
	DocumentURL string
	Title       string

	Text       string
	TokenCount int

	// SequenceIndex is the chunk's position in reading order, contiguous from
	// 0 within a document.
	SequenceIndex int
	TotalChunks   int
}

// ChunkID derives the stable identifier for a chunk of the given document.
func ChunkID(documentURL string, sequenceIndex int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:chunk:%d", documentURL, sequenceIndex)))
	return hex.EncodeToString(h[:])[:ChunkIDLength]
}

// EstimateTokenCount estimates the number of tokens in a string
func EstimateTokenCount(text string) int {
	return len(text) / TokensPerChar
}

// ComputeTokenCount fills in the chunk's token estimate and returns it
func (c *Chunk) ComputeTokenCount() int {
	c.TokenCount = EstimateTokenCount(c.Text)
	return c.TokenCount
}

// Validate checks the chunk's internal consistency
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrMissingChunkID
	}
	if c.DocumentURL == "" {
		return ErrMissingURL
	}
	if c.Text == "" {
		return ErrEmptyChunk
	}
	if c.SequenceIndex < 0 {
		return ErrNegativeSequence
	}
	if c.ID != ChunkID(c.DocumentURL, c.SequenceIndex) {
		return ErrChunkIDMismatch
	}
	return nil
}

var (
	ErrMissingChunkID   = errors.New("chunk ID is required")
	ErrEmptyChunk       = errors.New("chunk text cannot be empty")
	ErrNegativeSequence = errors.New("sequence index must be >= 0")
	ErrChunkIDMismatch  = errors.New("chunk ID does not match url and sequence index")
)
