//go:build !cgo_sqlite
// +build !cgo_sqlite

package cache

// This file is compiled when building without the cgo_sqlite tag. It uses a
// pure Go SQLite implementation:
//   - No C compiler required
//   - Cross-platform compilation
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
