package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// readEventsTool returns the tool definition for read_events
func readEventsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "read_events",
		Description: "Read recent orchestration events (state changes, schedules, worker activity). Defaults to the last hour.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"event_prefix": map[string]interface{}{
					"type":        "string",
					"description": "Filter events by name prefix (e.g., 'prefect.flow-run')",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of events to return (1-200)",
					"default":     50,
					"minimum":     1,
					"maximum":     200,
				},
				"occurred_after": map[string]interface{}{
					"type":        "string",
					"description": "RFC 3339 timestamp; only events after this instant",
				},
				"occurred_before": map[string]interface{}{
					"type":        "string",
					"description": "RFC 3339 timestamp; only events before this instant",
				},
			},
		},
	}
}

// listFlowRunsTool returns the tool definition for list_flow_runs
func listFlowRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_flow_runs",
		Description: "List flow runs, newest first, with an optional filter in the orchestration API's filter grammar",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filter": map[string]interface{}{
					"type":        "object",
					"description": "Flow run filter, e.g. {\"state\": {\"type\": {\"any_\": [\"FAILED\"]}}}",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-200)",
					"default":     50,
					"minimum":     1,
					"maximum":     200,
				},
			},
		},
	}
}

// getFlowRunTool returns the tool definition for get_flow_run
func getFlowRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_flow_run",
		Description: "Get detailed information about one flow run, optionally with its execution logs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"flow_run_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the flow run to retrieve",
				},
				"include_logs": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include execution logs in timestamp order",
					"default":     false,
				},
			},
			Required: []string{"flow_run_id"},
		},
	}
}

// runDeploymentTool returns the tool definition for run_deployment
func runDeploymentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "run_deployment",
		Description: "Create a flow run from a deployment, addressed as flow name plus deployment name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"flow_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the flow the deployment belongs to",
				},
				"deployment_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the deployment to run",
				},
				"parameters": map[string]interface{}{
					"type":        "object",
					"description": "Parameters to pass to the flow run",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Optional name for the created flow run",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Tags to attach to the created flow run",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"flow_name", "deployment_name"},
		},
	}
}

// getWorkPoolsTool returns the tool definition for get_work_pools
func getWorkPoolsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_work_pools",
		Description: "List work pools, or fetch one work pool by name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "If set, return only this work pool",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of pools to return when listing",
					"default":     50,
				},
			},
		},
	}
}

// searchDocsTool returns the tool definition for search_docs
func searchDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_docs",
		Description: "Semantic search over the ingested platform documentation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Number of results to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"query"},
		},
	}
}
