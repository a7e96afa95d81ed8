package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/driftlabs/flowmcp/internal/config"
)

// Common errors
var (
	ErrMissingAPIURL = errors.New("orchestration API URL not set")
	ErrNotFound      = errors.New("not found")
)

const (
	requestTimeout = 30 * time.Second

	// DefaultListLimit bounds filter queries unless the caller overrides it
	DefaultListLimit = 50
)

// Client is an HTTP client for the orchestration API. All operations return
// result envelopes rather than errors so failures travel to agent clients
// as structured payloads.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an orchestration API client
func NewClient(cfg config.PlatformConfig) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, ErrMissingAPIURL
	}

	return &Client{
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// APIURL returns the configured API base URL
func (c *Client) APIURL() string {
	return c.apiURL
}

// post sends a JSON body and decodes the JSON response into out
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// get decodes a JSON response into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
