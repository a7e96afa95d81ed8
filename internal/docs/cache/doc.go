// Package cache memoizes fetch+chunk results for the ingestion pipeline.
//
// Entries are keyed by (url, cache_version). The version is an invalidation
// token, not a schema version: a lookup under a version other than the one a
// row was stored with is simply a miss. Operators force a full re-ingestion
// by incrementing DOCS_CACHE_VERSION, which makes every lookup miss without
// deleting anything.
//
// # Usage
//
//	store, err := cache.NewSQLiteCache(cfg.Docs.CachePath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	chunks, ok, err := store.Get(ctx, url, cfg.Docs.CacheVersion)
//	if !ok {
//	    chunks = fetchAndChunk(url)
//	    _ = store.Put(ctx, url, cfg.Docs.CacheVersion, chunks)
//	}
//
// # Storage
//
// The SQLite implementation stores one row per URL with the chunk slice
// encoded as JSON. Writes upsert on URL, so a version bump overwrites stale
// rows in place. The driver is selected at build time: modernc.org/sqlite by
// default, github.com/mattn/go-sqlite3 with -tags cgo_sqlite.
package cache
