package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32001 // Query parameter is empty
	ErrorCodeDocsDisabled  = -32002 // Docs search not configured
)

// handleReadEvents handles the read_events tool invocation
func (s *Server) handleReadEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	limit := getIntDefault(args, "limit", 50)
	if limit < 1 || limit > 200 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 200", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}
	prefix := getStringDefault(args, "event_prefix", "")

	after, err := parseTimeParam(args, "occurred_after")
	if err != nil {
		return nil, err
	}
	before, err := parseTimeParam(args, "occurred_before")
	if err != nil {
		return nil, err
	}

	result := s.platform.ReadEvents(ctx, prefix, limit, after, before)
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleListFlowRuns handles the list_flow_runs tool invocation
func (s *Server) handleListFlowRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	limit := getIntDefault(args, "limit", 50)
	if limit < 1 || limit > 200 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 200", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}
	filter, _ := args["filter"].(map[string]interface{})

	result := s.platform.ListFlowRuns(ctx, filter, limit)
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleGetFlowRun handles the get_flow_run tool invocation
func (s *Server) handleGetFlowRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	flowRunID, ok := args["flow_run_id"].(string)
	if !ok || flowRunID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "flow_run_id parameter is required", map[string]interface{}{
			"param":  "flow_run_id",
			"reason": "missing or empty",
		})
	}
	includeLogs := getBoolDefault(args, "include_logs", false)

	result := s.platform.GetFlowRun(ctx, flowRunID, includeLogs)
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleRunDeployment handles the run_deployment tool invocation
func (s *Server) handleRunDeployment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	flowName, ok := args["flow_name"].(string)
	if !ok || flowName == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "flow_name parameter is required", map[string]interface{}{
			"param":  "flow_name",
			"reason": "missing or empty",
		})
	}
	deploymentName, ok := args["deployment_name"].(string)
	if !ok || deploymentName == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "deployment_name parameter is required", map[string]interface{}{
			"param":  "deployment_name",
			"reason": "missing or empty",
		})
	}

	parameters, _ := args["parameters"].(map[string]interface{})
	runName := getStringDefault(args, "name", "")
	tags := getStringSlice(args, "tags")

	result := s.platform.RunDeploymentByName(ctx, flowName, deploymentName, parameters, runName, tags)
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleGetWorkPools handles the get_work_pools tool invocation
func (s *Server) handleGetWorkPools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	if name := getStringDefault(args, "name", ""); name != "" {
		return mcp.NewToolResultText(formatJSON(s.platform.GetWorkPool(ctx, name))), nil
	}

	limit := getIntDefault(args, "limit", 50)
	return mcp.NewToolResultText(formatJSON(s.platform.ListWorkPools(ctx, limit))), nil
}

// handleSearchDocs handles the search_docs tool invocation
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.searcher == nil {
		return nil, newMCPError(ErrorCodeDocsDisabled, "docs search is not configured", map[string]interface{}{
			"reason": "vector store credential missing",
		})
	}

	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", s.cfg.Docs.TopK)
	if topK < 1 || topK > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be between 1 and 50", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	resp, err := s.searcher.Search(ctx, searchRequest(s.cfg, query, topK))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "docs search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(resp)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// parseTimeParam extracts an optional RFC 3339 timestamp parameter
func parseTimeParam(args map[string]interface{}, key string) (*time.Time, error) {
	raw, ok := args[key].(string)
	if !ok || raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, key+" must be an RFC 3339 timestamp", map[string]interface{}{
			"param": key,
			"value": raw,
		})
	}
	return &t, nil
}

// formatJSON formats a response payload as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
