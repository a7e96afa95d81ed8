// Package vectorstore writes embedded documentation chunks to a hosted
// vector store and runs approximate-nearest-neighbor queries against it.
//
// # Store Interface
//
// Store is the package boundary. TurbopufferStore is the production
// implementation, speaking the Turbopuffer v2 HTTP API with bearer-token
// auth. MemoryStore is an in-process implementation for tests and offline
// runs; it computes exact cosine distances instead of an ANN index, which
// is fine at test scale.
//
// # Idempotent Writes
//
// Row IDs are deterministic chunk IDs derived from the source URL and
// chunk index. Upserting the same rows twice leaves the namespace
// unchanged, so re-running ingestion never accumulates duplicates.
//
// # Namespaces
//
// Every write and query names a namespace explicitly. Production
// ingestion writes docs-v1; everything else defaults to the
// TESTING-docs-v1 namespace so an accidental run cannot touch
// production data.
package vectorstore
