// Package pipeline drives documentation ingestion end to end.
//
// # Flow
//
// A run starts from a sitemap. Every page URL goes through the same
// stages: fetch the page as markdown, split it into overlapping chunks,
// embed the chunk text, and upsert the embedded rows into the vector
// store namespace for the run. A SQLite-backed cache sits in front of
// the expensive stages; a page whose chunks are cached under the current
// cache version is skipped entirely, so a fully cached run makes zero
// embedding calls and zero writes.
//
// # Concurrency
//
// Pages are processed by a bounded worker pool built on errgroup plus a
// semaphore channel, with atomic counters feeding the run statistics.
// A failing page is recorded and skipped rather than aborting the run;
// only sitemap fetch failures and context cancellation stop ingestion.
//
// # Idempotency
//
// Chunk IDs are deterministic, derived from the source URL and chunk
// index, and the vector store overwrites rows by ID. Re-running the
// pipeline against the same namespace converges to the same row set
// regardless of cache state.
package pipeline
