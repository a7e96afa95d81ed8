package pipeline

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/driftlabs/flowmcp/internal/docs/cache"
	"github.com/driftlabs/flowmcp/internal/docs/chunker"
	"github.com/driftlabs/flowmcp/internal/docs/embedder"
	"github.com/driftlabs/flowmcp/internal/docs/fetcher"
	"github.com/driftlabs/flowmcp/internal/docs/vectorstore"
	"github.com/driftlabs/flowmcp/pkg/types"
)

// Pipeline coordinates the ingestion flow: sitemap -> fetch -> chunk ->
// embed -> upsert, with a fetch+chunk cache in front of the expensive steps.
type Pipeline struct {
	fetcher  *fetcher.Fetcher
	chunker  *chunker.Chunker
	cache    cache.Cache
	embedder embedder.Embedder
	store    vectorstore.Store

	workers int
}

// Options configures a single ingestion run
type Options struct {
	// Namespace receives the upserted rows. Required.
	Namespace string

	// CacheVersion keys cache lookups. A lookup under a different version
	// than the stored one is a miss, so bumping the version forces a full
	// re-ingestion without clearing anything.
	CacheVersion int

	// Workers bounds concurrent page processing (default: runtime.NumCPU())
	Workers int

	// Reset deletes the namespace before ingesting
	Reset bool
}

// Statistics summarizes a completed ingestion run
type Statistics struct {
	Processed      int // Pages fetched, chunked, embedded and upserted
	Skipped        int // Pages served from cache, left untouched in the store
	Failed         int // Pages that errored; the run continues past them
	ChunksCreated  int
	ChunksUpserted int
	Duration       time.Duration
	ErrorMessages  []string
}

// New creates an ingestion pipeline
func New(f *fetcher.Fetcher, c cache.Cache, e embedder.Embedder, s vectorstore.Store) *Pipeline {
	return &Pipeline{
		fetcher:  f,
		chunker:  chunker.New(),
		cache:    c,
		embedder: e,
		store:    s,
		workers:  runtime.NumCPU(),
	}
}

// Run ingests every page in the sitemap. Individual page failures are
// recorded and skipped; only sitemap-level or store-reset failures abort
// the run.
func (p *Pipeline) Run(ctx context.Context, sitemapURL string, opts *Options) (*Statistics, error) {
	if opts == nil || opts.Namespace == "" {
		return nil, fmt.Errorf("pipeline: namespace is required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = p.workers
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	if opts.Reset {
		log.Printf("pipeline: resetting namespace %s", opts.Namespace)
		if err := p.store.DeleteAll(ctx, opts.Namespace); err != nil {
			return nil, fmt.Errorf("reset namespace: %w", err)
		}
	}

	urls, err := p.fetcher.FetchSitemap(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	log.Printf("pipeline: %d pages discovered, namespace=%s cache_version=%d workers=%d",
		len(urls), opts.Namespace, opts.CacheVersion, workers)

	semaphore := make(chan struct{}, workers)

	var (
		processed int32
		skipped   int32
		failed    int32
		created   int32
		upserted  int32
	)
	var mu sync.Mutex // Protects stats.ErrorMessages

	g, gctx := errgroup.WithContext(ctx)

	for _, pageURL := range urls {
		g.Go(func() error {
			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-gctx.Done():
				return gctx.Err()
			}

			outcome, err := p.processPage(gctx, pageURL, opts)
			if err != nil {
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", pageURL, err))
				mu.Unlock()
				log.Printf("pipeline: page failed url=%s err=%v", pageURL, err)
				return nil
			}

			if outcome.cached {
				atomic.AddInt32(&skipped, 1)
				return nil
			}
			atomic.AddInt32(&processed, 1)
			atomic.AddInt32(&created, int32(outcome.chunksCreated))
			atomic.AddInt32(&upserted, int32(outcome.chunksUpserted))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingestion interrupted: %w", err)
	}

	stats.Processed = int(processed)
	stats.Skipped = int(skipped)
	stats.Failed = int(failed)
	stats.ChunksCreated = int(created)
	stats.ChunksUpserted = int(upserted)
	stats.Duration = time.Since(startTime)

	log.Printf("pipeline: done processed=%d skipped=%d failed=%d chunks=%d duration=%s",
		stats.Processed, stats.Skipped, stats.Failed, stats.ChunksUpserted, stats.Duration)
	return stats, nil
}

type pageOutcome struct {
	cached         bool
	chunksCreated  int
	chunksUpserted int
}

// processPage runs one page through the pipeline. A cache hit means the
// page's chunks were already embedded and upserted under this cache
// version, so the page is skipped entirely.
func (p *Pipeline) processPage(ctx context.Context, pageURL string, opts *Options) (pageOutcome, error) {
	if _, hit, err := p.cache.Get(ctx, pageURL, opts.CacheVersion); err != nil {
		return pageOutcome{}, fmt.Errorf("cache lookup: %w", err)
	} else if hit {
		return pageOutcome{cached: true}, nil
	}

	doc, err := p.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return pageOutcome{}, fmt.Errorf("fetch: %w", err)
	}

	chunks, err := p.chunker.ChunkDocument(doc)
	if err != nil {
		return pageOutcome{}, fmt.Errorf("chunk: %w", err)
	}

	upsertedCount, err := p.embedAndUpsert(ctx, chunks, opts.Namespace)
	if err != nil {
		return pageOutcome{}, err
	}

	// Cache only after a successful upsert so a failed page retries on the
	// next run
	if err := p.cache.Put(ctx, pageURL, opts.CacheVersion, chunks); err != nil {
		return pageOutcome{}, fmt.Errorf("cache store: %w", err)
	}

	return pageOutcome{
		chunksCreated:  len(chunks),
		chunksUpserted: upsertedCount,
	}, nil
}

func (p *Pipeline) embedAndUpsert(ctx context.Context, chunks []types.Chunk, namespace string) (int, error) {
	total := 0
	for start := 0; start < len(chunks); start += embedder.MaxBatchSize {
		end := start + embedder.MaxBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		resp, err := p.embedder.EmbedBatch(ctx, embedder.BatchRequest{Texts: texts})
		if err != nil {
			return total, fmt.Errorf("embed: %w", err)
		}
		if len(resp.Embeddings) != len(batch) {
			return total, fmt.Errorf("embed: expected %d embeddings, got %d", len(batch), len(resp.Embeddings))
		}

		rows := make([]vectorstore.Row, len(batch))
		for i, chunk := range batch {
			rows[i] = vectorstore.Row{
				ID:     chunk.ID,
				Vector: resp.Embeddings[i].Vector,
				Text:   chunk.Text,
				Title:  chunk.Title,
				Link:   chunk.DocumentURL,
				Metadata: map[string]any{
					"chunk_index":  chunk.SequenceIndex,
					"total_chunks": chunk.TotalChunks,
					"source_url":   chunk.DocumentURL,
				},
			}
		}

		n, err := p.store.Upsert(ctx, namespace, rows)
		if err != nil {
			return total, fmt.Errorf("upsert: %w", err)
		}
		total += n
	}
	return total, nil
}
