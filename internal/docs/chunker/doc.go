// Package chunker splits documentation pages into overlapping text segments
// sized for the embedding model.
//
// # Usage
//
//	c := chunker.New()
//	chunks, err := c.ChunkDocument(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, chunk := range chunks {
//	    fmt.Printf("chunk %d/%d: %d tokens\n",
//	        chunk.SequenceIndex, chunk.TotalChunks, chunk.TokenCount)
//	}
//
// # Invariants
//
// Sequence indexes are contiguous from 0 in reading order. Every chunk after
// the first starts with exactly the last Overlap runes of its predecessor:
// concatenating chunk texts in order and dropping that fixed prefix from each
// chunk but the first reconstructs the source text byte for byte. A document
// at or under the size limit yields exactly one chunk holding the full text.
//
// # Sizing
//
// Chunks are bounded by MaxChunkSize runes of content. Splits land on word
// boundaries when the window contains any whitespace. A trailing fragment
// shorter than MinChunkSize is merged into the previous chunk, which may push
// that one chunk slightly past the limit; header-only tail fragments embed
// poorly on their own, so merging beats emitting them.
package chunker
