// Package search answers semantic queries over ingested documentation.
//
// A query is embedded with the same provider the ingestion pipeline used,
// then run as an approximate-nearest-neighbor lookup against the vector
// store namespace. Matches come back shaped as ranked doc results with a
// bounded snippet, the page title and link, and the chunk metadata the
// pipeline wrote.
//
// Responses are cached in an LRU keyed by a hash of the query, namespace
// and result count, with per-entry TTL expiry. Cached responses are
// deep-copied on both store and retrieval so callers can mutate results
// freely.
package search
