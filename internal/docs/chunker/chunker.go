package chunker

import (
	"unicode"

	"github.com/driftlabs/flowmcp/pkg/types"
)

const (
	// DefaultMaxChunkSize is the target maximum chunk length in characters,
	// sized for the embedding model's context limit
	DefaultMaxChunkSize = 3000

	// DefaultOverlap is the fixed number of characters carried from the end
	// of one chunk into the start of the next
	DefaultOverlap = 200

	// DefaultMinChunkSize filters out tiny trailing fragments; a final
	// fragment shorter than this is merged into the previous chunk
	DefaultMinChunkSize = 200
)

// Chunker splits document text into overlapping segments. Sizes are measured
// in runes so multi-byte text never splits mid-character.
type Chunker struct {
	maxChunkSize int
	overlap      int
	minChunkSize int
}

// New creates a Chunker with the default sizes
func New() *Chunker {
	return NewWithSizes(DefaultMaxChunkSize, DefaultOverlap, DefaultMinChunkSize)
}

// NewWithSizes creates a Chunker with explicit sizes. Values that would make
// the window degenerate fall back to the defaults.
func NewWithSizes(maxChunkSize, overlap, minChunkSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if overlap < 0 || overlap*2 >= maxChunkSize {
		overlap = DefaultOverlap
		if overlap*2 >= maxChunkSize {
			overlap = maxChunkSize / 4
		}
	}
	if minChunkSize < 0 {
		minChunkSize = DefaultMinChunkSize
	}
	return &Chunker{
		maxChunkSize: maxChunkSize,
		overlap:      overlap,
		minChunkSize: minChunkSize,
	}
}

// Overlap returns the fixed overlap length in runes
func (c *Chunker) Overlap() int {
	return c.overlap
}

// ChunkDocument splits a document into ordered chunks. A document at or under
// the size limit yields exactly one chunk holding the full text. Otherwise,
// each chunk after the first begins with the last Overlap runes of its
// predecessor, so concatenating chunk texts in sequence order and dropping
// that prefix from every chunk but the first reconstructs the source exactly.
func (c *Chunker) ChunkDocument(doc *types.Document) ([]types.Chunk, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(doc.RawText)
	cuts := c.cutPoints(runes)

	total := len(cuts) - 1
	chunks := make([]types.Chunk, 0, total)
	for i := 0; i < total; i++ {
		start := cuts[i]
		if i > 0 {
			start -= c.overlap
			if start < 0 {
				start = 0
			}
		}
		chunk := types.Chunk{
			ID:            types.ChunkID(doc.URL, i),
			DocumentURL:   doc.URL,
			Title:         doc.Title,
			Text:          string(runes[start:cuts[i+1]]),
			SequenceIndex: i,
			TotalChunks:   total,
		}
		chunk.ComputeTokenCount()
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// cutPoints returns the rune offsets where new chunk content begins, starting
// at 0 and ending at len(runes). Each span between consecutive cuts is at most
// maxChunkSize-overlap runes and ends on a word boundary when one exists.
func (c *Chunker) cutPoints(runes []rune) []int {
	if len(runes) <= c.maxChunkSize {
		return []int{0, len(runes)}
	}

	step := c.maxChunkSize - c.overlap
	cuts := []int{0}

	pos := 0
	for pos < len(runes) {
		if len(runes)-pos <= step {
			cuts = append(cuts, len(runes))
			break
		}
		cut := lastWordBoundary(runes, pos, pos+step)
		if cut <= pos {
			// No whitespace in the window; split mid-word rather than stall
			cut = pos + step
		}
		cuts = append(cuts, cut)
		pos = cut
	}

	// Merge a trailing fragment too small to stand on its own into the
	// previous chunk
	if n := len(cuts); n >= 3 && cuts[n-1]-cuts[n-2] < c.minChunkSize {
		cuts = append(cuts[:n-2], cuts[n-1])
	}
	return cuts
}

// lastWordBoundary returns the largest offset in (start, end] preceded by
// whitespace, or start when none exists
func lastWordBoundary(runes []rune, start, end int) int {
	for i := end; i > start; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return start
}
