// Package fetcher retrieves documentation pages for the ingestion pipeline.
//
// The fetcher resolves the document set from the docs sitemap and downloads
// each page as markdown (the docs host serves markdown source when asked for
// text/plain).
//
// # Usage
//
//	f := fetcher.New()
//	urls, err := f.FetchSitemap(ctx, cfg.Docs.SitemapURL)
//	if err != nil {
//	    // fatal: no documents to process
//	}
//
//	doc, err := f.FetchPage(ctx, urls[0])
//	if err != nil {
//	    // recoverable: record and continue with the next URL
//	}
//
// # Failure Policy
//
// A sitemap failure aborts the run. A single page failure does not: the
// pipeline driver records it in the run summary and continues.
//
// # Rate Limiting
//
// All requests pass through a shared token bucket (golang.org/x/time/rate),
// so the pipeline's worker pool cannot exceed the configured request rate no
// matter how many workers are fetching.
package fetcher
