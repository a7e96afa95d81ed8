// Package mcp implements the Model Context Protocol (MCP) server for flowmcp.
//
// The server exposes the state of a workflow-orchestration platform to AI
// agents over MCP's JSON-RPC 2.0 stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Resources
//
//   - flow://dashboard: point-in-time overview of running, pending and
//     recently failed flow runs plus work pool health
//   - flow://deployments: every deployment with its flow name, schedules
//     and recent runs
//
// # Tools
//
//   - read_events: recent orchestration events, defaulting to the last hour
//   - list_flow_runs: flow runs newest first, with an optional filter in
//     the platform's filter grammar
//   - get_flow_run: one flow run by ID, optionally with execution logs
//   - run_deployment: create a flow run from a flow/deployment name pair
//   - get_work_pools: list work pools or fetch one by name
//   - search_docs: semantic search over ingested platform documentation
//
// # Response Shape
//
// Platform-backed tools return result envelopes as indented JSON text:
//
//	{
//	  "success": true,
//	  "count": 2,
//	  "flow_runs": [...]
//	}
//
// A platform failure produces {"success": false, "error": "..."} rather
// than a protocol error, so agents can read and react to the failure.
// Protocol errors (MCPError with a JSON-RPC code) are reserved for invalid
// parameters and missing configuration.
//
// # Docs Search
//
// search_docs requires a vector store credential. When none is configured
// the server starts without a searcher and the tool answers with error
// code -32002.
package mcp
