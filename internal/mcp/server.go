package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/driftlabs/flowmcp/internal/config"
	"github.com/driftlabs/flowmcp/internal/docs/embedder"
	"github.com/driftlabs/flowmcp/internal/docs/search"
	"github.com/driftlabs/flowmcp/internal/docs/vectorstore"
	"github.com/driftlabs/flowmcp/internal/platform"
)

const (
	// ServerName is the MCP server name
	ServerName = "flowmcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	platform *platform.Client
	searcher *search.Searcher
	cfg      *config.Config
}

// NewServer creates a new MCP server instance. Docs search is wired only
// when a vector store credential is configured; the orchestration client is
// always required.
func NewServer(cfg *config.Config) (*Server, error) {
	client, err := platform.NewClient(cfg.Platform)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize platform client: %w", err)
	}

	var searcher *search.Searcher
	if cfg.VectorStore.APIKey != "" {
		store, err := vectorstore.NewTurbopufferStore(cfg.VectorStore)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vector store: %w", err)
		}
		emb, err := embedder.New(cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		searcher = search.NewSearcher(store, emb)
	} else {
		log.Printf("docs search disabled: no vector store credential configured")
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:      mcpServer,
		platform: client,
		searcher: searcher,
		cfg:      cfg,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(readEventsTool(), s.handleReadEvents)
	s.mcp.AddTool(listFlowRunsTool(), s.handleListFlowRuns)
	s.mcp.AddTool(getFlowRunTool(), s.handleGetFlowRun)
	s.mcp.AddTool(runDeploymentTool(), s.handleRunDeployment)
	s.mcp.AddTool(getWorkPoolsTool(), s.handleGetWorkPools)
	s.mcp.AddTool(searchDocsTool(), s.handleSearchDocs)
}
