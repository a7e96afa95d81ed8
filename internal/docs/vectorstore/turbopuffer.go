package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/driftlabs/flowmcp/internal/config"
)

const requestTimeout = 60 * time.Second

// TurbopufferStore talks to a hosted Turbopuffer-compatible vector store
// over HTTP. One store handles many namespaces.
type TurbopufferStore struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTurbopufferStore creates a store client for the configured region
func NewTurbopufferStore(cfg config.VectorStoreConfig) (*TurbopufferStore, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	region := cfg.Region
	if region == "" {
		region = config.DefaultRegion
	}

	return &TurbopufferStore{
		apiKey:  cfg.APIKey,
		baseURL: fmt.Sprintf("https://%s.turbopuffer.com", region),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// Upsert writes rows in batches of MaxUpsertBatch. Rows with an existing ID
// are overwritten, which keeps re-ingestion idempotent.
func (s *TurbopufferStore) Upsert(ctx context.Context, namespace string, rows []Row) (int, error) {
	if namespace == "" {
		return 0, ErrEmptyNamespace
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return 0, fmt.Errorf("%w at index %d: %v", ErrInvalidRow, i, err)
		}
	}

	written := 0
	for start := 0; start < len(rows); start += MaxUpsertBatch {
		end := start + MaxUpsertBatch
		if end > len(rows) {
			end = len(rows)
		}
		if err := s.upsertBatch(ctx, namespace, rows[start:end]); err != nil {
			return written, err
		}
		written += end - start
	}
	return written, nil
}

func (s *TurbopufferStore) upsertBatch(ctx context.Context, namespace string, rows []Row) error {
	wireRows := make([]map[string]any, len(rows))
	for i, row := range rows {
		wire := map[string]any{
			"id":     row.ID,
			"vector": row.Vector,
			"text":   row.Text,
			"title":  row.Title,
			"link":   row.Link,
		}
		for k, v := range row.Metadata {
			wire[k] = v
		}
		wireRows[i] = wire
	}

	body := map[string]any{
		"upsert_rows":     wireRows,
		"distance_metric": DistanceMetric,
	}

	var resp struct {
		Status string `json:"status"`
	}
	path := fmt.Sprintf("/v2/namespaces/%s", namespace)
	if err := s.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrUpsertFailed, err)
	}
	return nil
}

// Query runs an ANN search against the namespace
func (s *TurbopufferStore) Query(ctx context.Context, namespace string, vector []float32, topK int, includeAttrs []string) ([]QueryMatch, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	if topK <= 0 {
		topK = config.DefaultTopK
	}

	body := map[string]any{
		"rank_by": []any{"vector", "ANN", vector},
		"top_k":   topK,
	}
	if len(includeAttrs) > 0 {
		body["include_attributes"] = includeAttrs
	}

	var resp struct {
		Rows []map[string]any `json:"rows"`
	}
	path := fmt.Sprintf("/v2/namespaces/%s/query", namespace)
	if err := s.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	matches := make([]QueryMatch, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		match := QueryMatch{Attributes: make(map[string]any)}
		for k, v := range row {
			switch k {
			case "id":
				match.ID = fmt.Sprintf("%v", v)
			case "$dist":
				if dist, ok := v.(float64); ok {
					d := dist
					match.Score = &d
				}
			default:
				match.Attributes[k] = v
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// DeleteAll drops the namespace. A 404 counts as success since the end state
// is the same.
func (s *TurbopufferStore) DeleteAll(ctx context.Context, namespace string) error {
	if namespace == "" {
		return ErrEmptyNamespace
	}

	path := fmt.Sprintf("/v2/namespaces/%s", namespace)
	err := s.doJSON(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		var httpErr *httpStatusError
		if errors.As(err, &httpErr) && httpErr.status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.status, e.body)
}

func (s *TurbopufferStore) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpStatusError{status: resp.StatusCode, body: string(bodyBytes)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
