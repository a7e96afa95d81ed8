package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used by tests and offline runs. Rows
// live in a per-namespace map keyed by row ID, so upserts naturally
// overwrite.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]Row
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]Row),
	}
}

func (m *MemoryStore) Upsert(ctx context.Context, namespace string, rows []Row) (int, error) {
	if namespace == "" {
		return 0, ErrEmptyNamespace
	}
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return 0, fmt.Errorf("%w at index %d: %v", ErrInvalidRow, i, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string]Row)
		m.namespaces[namespace] = ns
	}
	for _, row := range rows {
		ns[row.ID] = row
	}
	return len(rows), nil
}

func (m *MemoryStore) Query(ctx context.Context, namespace string, vector []float32, topK int, includeAttrs []string) ([]QueryMatch, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	if topK <= 0 {
		topK = 5
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ns := m.namespaces[namespace]
	matches := make([]QueryMatch, 0, len(ns))
	for id, row := range ns {
		dist := cosineDistance(vector, row.Vector)
		attrs := map[string]any{
			"text":  row.Text,
			"title": row.Title,
			"link":  row.Link,
		}
		for k, v := range row.Metadata {
			attrs[k] = v
		}
		matches = append(matches, QueryMatch{ID: id, Score: &dist, Attributes: attrs})
	}

	sort.Slice(matches, func(i, j int) bool {
		return *matches[i].Score < *matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context, namespace string) error {
	if namespace == "" {
		return ErrEmptyNamespace
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.namespaces, namespace)
	return nil
}

// Count returns the number of rows in a namespace
func (m *MemoryStore) Count(namespace string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.namespaces[namespace])
}

// Namespaces returns the names of all non-empty namespaces
func (m *MemoryStore) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.namespaces))
	for name, rows := range m.namespaces {
		if len(rows) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2 // Maximum cosine distance plus epsilon for mismatched vectors
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	// Rounding can push an exact match a hair below zero; keep the result in
	// the metric's [0, 2] range
	dist := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	switch {
	case dist < 0:
		return 0
	case dist > 2:
		return 2
	}
	return dist
}
