package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/flowmcp/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) *Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.Platform.APIURL = srv.URL

	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload from a tool result
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestNewServer_RequiresPlatformURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.Platform.APIURL = ""

	_, err := NewServer(cfg)
	require.Error(t, err)
}

func TestNewServer_DocsSearchOptional(t *testing.T) {
	cfg := config.Defaults()
	cfg.Platform.APIURL = "http://localhost:4200/api"

	s, err := NewServer(cfg)
	require.NoError(t, err)
	assert.Nil(t, s.searcher)

	cfg.VectorStore.APIKey = "tpuf-test"
	s, err = NewServer(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s.searcher)
}

func TestHandleListFlowRuns(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flow_runs/filter", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"run-1","name":"quiet-owl","state_type":"COMPLETED"}]`))
	}))

	result, err := s.handleListFlowRuns(context.Background(), callRequest("list_flow_runs", map[string]interface{}{
		"limit": float64(10),
	}))
	require.NoError(t, err)

	var envelope struct {
		Success  bool `json:"success"`
		Count    int  `json:"count"`
		FlowRuns []struct {
			ID string `json:"id"`
		} `json:"flow_runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.Count)
	assert.Equal(t, "run-1", envelope.FlowRuns[0].ID)
}

func TestHandleListFlowRuns_LimitBounds(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	_, err := s.handleListFlowRuns(context.Background(), callRequest("list_flow_runs", map[string]interface{}{
		"limit": float64(500),
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleGetFlowRun_RequiresID(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	_, err := s.handleGetFlowRun(context.Background(), callRequest("get_flow_run", map[string]interface{}{}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleGetFlowRun_PlatformFailureIsEnvelope(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	result, err := s.handleGetFlowRun(context.Background(), callRequest("get_flow_run", map[string]interface{}{
		"flow_run_id": "run-1",
	}))
	require.NoError(t, err, "platform failures travel inside the envelope")

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &envelope))
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error, "failed to get flow run")
}

func TestHandleRunDeployment_RequiresNames(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	_, err := s.handleRunDeployment(context.Background(), callRequest("run_deployment", map[string]interface{}{
		"deployment_name": "daily",
	}))
	require.Error(t, err)

	_, err = s.handleRunDeployment(context.Background(), callRequest("run_deployment", map[string]interface{}{
		"flow_name": "etl",
	}))
	require.Error(t, err)
}

func TestHandleGetWorkPools_NameSelectsSinglePool(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/work_pools/default":
			_, _ = w.Write([]byte(`{"id":"wp-1","name":"default","type":"process"}`))
		case "/work_pools/filter":
			_, _ = w.Write([]byte(`[{"id":"wp-1","name":"default"},{"id":"wp-2","name":"k8s"}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	result, err := s.handleGetWorkPools(context.Background(), callRequest("get_work_pools", map[string]interface{}{
		"name": "default",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"work_pool"`)

	result, err = s.handleGetWorkPools(context.Background(), callRequest("get_work_pools", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"work_pools"`)
}

func TestHandleReadEvents_InvalidTimestamp(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	_, err := s.handleReadEvents(context.Background(), callRequest("read_events", map[string]interface{}{
		"occurred_after": "yesterday",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleSearchDocs_DisabledWithoutCredential(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())

	_, err := s.handleSearchDocs(context.Background(), callRequest("search_docs", map[string]interface{}{
		"query": "how do work pools work",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeDocsDisabled, mcpErr.Code)
}

func TestHandleDashboardResource(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flow_runs/filter":
			_, _ = w.Write([]byte(`[]`))
		case "/work_pools/filter":
			_, _ = w.Write([]byte(`[{"id":"wp-1","name":"default"}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	contents, err := s.handleDashboardResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, DashboardResourceURI, text.URI)
	assert.Contains(t, text.Text, `"success": true`)
}
