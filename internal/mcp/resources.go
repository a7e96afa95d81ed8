package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/driftlabs/flowmcp/internal/config"
	"github.com/driftlabs/flowmcp/internal/docs/search"
)

const (
	// DashboardResourceURI exposes the operational overview
	DashboardResourceURI = "flow://dashboard"
	// DeploymentsResourceURI exposes the deployment listing
	DeploymentsResourceURI = "flow://deployments"
)

// registerResources registers the read-only resources
func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		DashboardResourceURI,
		"Dashboard",
		mcp.WithResourceDescription("Current flow run activity: running, pending, recent failures, work pool health"),
		mcp.WithMIMEType("application/json"),
	), s.handleDashboardResource)

	s.mcp.AddResource(mcp.NewResource(
		DeploymentsResourceURI,
		"Deployments",
		mcp.WithResourceDescription("All deployments with flow names, schedules and recent runs"),
		mcp.WithMIMEType("application/json"),
	), s.handleDeploymentsResource)
}

func (s *Server) handleDashboardResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	result := s.platform.FetchDashboard(ctx)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DashboardResourceURI,
			MIMEType: "application/json",
			Text:     formatJSON(result),
		},
	}, nil
}

func (s *Server) handleDeploymentsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	result := s.platform.ListDeployments(ctx, "", 0)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DeploymentsResourceURI,
			MIMEType: "application/json",
			Text:     formatJSON(result),
		},
	}, nil
}

// searchRequest builds a docs search request against the production docs
// namespace, honoring a configured namespace override
func searchRequest(cfg *config.Config, query string, topK int) search.Request {
	return search.Request{
		Query:     query,
		Namespace: cfg.NamespaceFor(true),
		TopK:      topK,
		UseCache:  true,
	}
}
