// Package embedder converts document chunks into vector embeddings.
//
// # Basic Usage
//
//	emb, err := embedder.New(cfg.Embedding)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	resp, err := emb.EmbedBatch(ctx, embedder.BatchRequest{
//	    Texts: []string{chunk1.Text, chunk2.Text},
//	})
//
// Responses preserve input order: resp.Embeddings[i] belongs to Texts[i].
//
// # Provider Selection
//
// The factory picks a provider from the configuration:
//
//  1. cfg.Provider set → use that provider (openai, local)
//  2. cfg.APIKey set → OpenAI
//  3. otherwise → local deterministic provider (offline mode)
//
// The OpenAI provider uses text-embedding-3-small (1536 dimensions). Vector
// length is constant per model for the lifetime of a namespace, so switching
// models means ingesting into a fresh namespace.
//
// # Retry Policy
//
// Embedding calls are the pipeline's sole expensive, rate-limited dependency.
// API failures are retried with bounded exponential backoff: 3 attempts, 1s
// base delay, 2.0 multiplier, 30s cap, aborted early on context cancellation.
// Exhausting retries fails only the batch in question; the pipeline driver
// records the failure and continues.
//
// # Caching
//
// An LRU cache keyed by content hash sits in front of both providers, so
// re-embedding an unchanged chunk within one process is free.
package embedder
