package platform

import (
	"context"
	"fmt"
)

type apiWorkPool struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsPaused         bool   `json:"is_paused"`
	ConcurrencyLimit *int   `json:"concurrency_limit"`
	Status           string `json:"status"`
}

func (p apiWorkPool) shape() WorkPool {
	return WorkPool{
		ID:               p.ID,
		Name:             p.Name,
		Type:             p.Type,
		Paused:           p.IsPaused,
		ConcurrencyLimit: p.ConcurrencyLimit,
		Status:           p.Status,
	}
}

// ListWorkPools returns all work pools
func (c *Client) ListWorkPools(ctx context.Context, limit int) *WorkPoolsResult {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var pools []apiWorkPool
	body := map[string]any{"limit": limit}
	if err := c.post(ctx, "/work_pools/filter", body, &pools); err != nil {
		return &WorkPoolsResult{Error: fmt.Sprintf("failed to list work pools: %v", err)}
	}

	shaped := make([]WorkPool, len(pools))
	for i, pool := range pools {
		shaped[i] = pool.shape()
	}
	return &WorkPoolsResult{Success: true, Count: len(shaped), WorkPools: shaped}
}

// GetWorkPool returns one work pool by name
func (c *Client) GetWorkPool(ctx context.Context, name string) *WorkPoolResult {
	if name == "" {
		return &WorkPoolResult{Error: "work pool name is required"}
	}

	var pool apiWorkPool
	if err := c.get(ctx, "/work_pools/"+name, &pool); err != nil {
		return &WorkPoolResult{Error: fmt.Sprintf("failed to get work pool %s: %v", name, err)}
	}

	shaped := pool.shape()
	return &WorkPoolResult{Success: true, WorkPool: &shaped}
}
