// Package types provides shared type definitions for the flowmcp server and
// its documentation ingestion pipeline.
//
// # Core Types
//
// Document represents a documentation page fetched from the docs site:
//
//	doc := &types.Document{
//	    URL:     "https://docs.example.dev/concepts/deployments",
//	    Title:   "Deployments",
//	    RawText: pageMarkdown,
//	}
//
// Chunk represents a bounded-length segment of a document, the unit of
// embedding and storage:
//
//	chunk := &types.Chunk{
//	    ID:            types.ChunkID(doc.URL, 0),
//	    DocumentURL:   doc.URL,
//	    Text:          segment,
//	    SequenceIndex: 0,
//	}
//
// # Chunk Identity
//
// Chunk IDs are derived from the document URL and the chunk's sequence index
// (first 16 hex characters of a SHA-256). Re-ingesting an unchanged document
// therefore produces the same IDs and the vector store overwrites in place
// instead of accumulating duplicates.
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
