package types

import (
	"errors"
	"time"
)

// Document represents a single documentation page fetched from the docs site.
// Identity is the URL; a re-fetch in a later run supersedes the document rather
// than mutating it.
type Document struct {
	URL       string
	Title     string
	RawText   string
	FetchedAt time.Time
}

// Validate checks that the document carries enough data to be chunked
func (d *Document) Validate() error {
	if d.URL == "" {
		return ErrMissingURL
	}
	if d.RawText == "" {
		return ErrEmptyDocument
	}
	return nil
}

var (
	ErrMissingURL    = errors.New("document URL is required")
	ErrEmptyDocument = errors.New("document has no content")
)
