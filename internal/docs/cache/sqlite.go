package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/driftlabs/flowmcp/pkg/types"
)

// SQLiteCache implements Cache over a local SQLite file, so cache hits
// survive across pipeline invocations.
type SQLiteCache struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer; pipeline workers funnel their
	// cache writes through this one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteCache opens (or creates) the chunk cache at dbPath
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get looks up the chunks cached for a URL. A row stored under a different
// cache version is treated as a miss, never an error.
func (c *SQLiteCache) Get(ctx context.Context, url string, version int) ([]types.Chunk, bool, error) {
	query := `
		SELECT chunks
		FROM chunk_cache
		WHERE url = ? AND cache_version = ?
	`
	var payload []byte
	err := c.db.QueryRowContext(ctx, query, url, version).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup for %s: %w", url, err)
	}

	var chunks []types.Chunk
	if err := json.Unmarshal(payload, &chunks); err != nil {
		// A corrupt row is recoverable: treat it as a miss so the document
		// is re-fetched and the row overwritten
		return nil, false, nil
	}
	return chunks, true, nil
}

// Put stores the chunks for a URL, replacing any prior entry for that URL.
// Keying the table by URL alone means a version bump overwrites stale rows in
// place instead of accumulating one row per version.
func (c *SQLiteCache) Put(ctx context.Context, url string, version int, chunks []types.Chunk) error {
	payload, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("encode chunks for %s: %w", url, err)
	}

	query := `
		INSERT INTO chunk_cache (url, cache_version, chunks, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			cache_version = excluded.cache_version,
			chunks = excluded.chunks,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	if _, err := c.db.ExecContext(ctx, query, url, version, payload, len(chunks), now, now); err != nil {
		return fmt.Errorf("cache write for %s: %w", url, err)
	}
	return nil
}

// Stats reports entry counts per cache version, for run logging
func (c *SQLiteCache) Stats(ctx context.Context) (map[int]int, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT cache_version, COUNT(*) FROM chunk_cache GROUP BY cache_version`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := make(map[int]int)
	for rows.Next() {
		var version, count int
		if err := rows.Scan(&version, &count); err != nil {
			return nil, err
		}
		stats[version] = count
	}
	return stats, rows.Err()
}
