package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID_Stable(t *testing.T) {
	a := ChunkID("https://docs.example.dev/page", 0)
	b := ChunkID("https://docs.example.dev/page", 0)
	assert.Equal(t, a, b)
	assert.Len(t, a, ChunkIDLength)
}

func TestChunkID_VariesByIndex(t *testing.T) {
	a := ChunkID("https://docs.example.dev/page", 0)
	b := ChunkID("https://docs.example.dev/page", 1)
	assert.NotEqual(t, a, b)
}

func TestChunkID_VariesByURL(t *testing.T) {
	a := ChunkID("https://docs.example.dev/page", 0)
	b := ChunkID("https://docs.example.dev/other", 0)
	assert.NotEqual(t, a, b)
}

func TestChunkValidate(t *testing.T) {
	url := "https://docs.example.dev/page"
	chunk := &Chunk{
		ID:            ChunkID(url, 2),
		DocumentURL:   url,
		Text:          "some content",
		SequenceIndex: 2,
	}
	require.NoError(t, chunk.Validate())

	empty := &Chunk{ID: ChunkID(url, 0), DocumentURL: url}
	assert.ErrorIs(t, empty.Validate(), ErrEmptyChunk)

	mismatched := &Chunk{
		ID:            ChunkID(url, 0),
		DocumentURL:   url,
		Text:          "content",
		SequenceIndex: 1,
	}
	assert.ErrorIs(t, mismatched.Validate(), ErrChunkIDMismatch)
}

func TestEstimateTokenCount(t *testing.T) {
	assert.Equal(t, 0, EstimateTokenCount(""))
	assert.Equal(t, 25, EstimateTokenCount(strings.Repeat("a", 100)))
}

func TestDocumentValidate(t *testing.T) {
	doc := &Document{URL: "https://docs.example.dev/page", RawText: "# Page"}
	require.NoError(t, doc.Validate())

	assert.ErrorIs(t, (&Document{RawText: "x"}).Validate(), ErrMissingURL)
	assert.ErrorIs(t, (&Document{URL: "u"}).Validate(), ErrEmptyDocument)
}

func TestDocResultValidate(t *testing.T) {
	r := &DocResult{ChunkID: "abc123", Rank: 1, Snippet: "text"}
	require.NoError(t, r.Validate())

	r.Rank = 0
	assert.ErrorIs(t, r.Validate(), ErrInvalidRank)
}
