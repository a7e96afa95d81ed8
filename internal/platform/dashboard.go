package platform

import (
	"context"
	"fmt"
	"time"
)

const dashboardQueryLimit = 50

// FetchDashboard builds a point-in-time operational overview from targeted
// queries: currently running runs, pending runs, failures in the last hour,
// and work pool health.
func (c *Client) FetchDashboard(ctx context.Context) *DashboardResult {
	now := time.Now().UTC()

	running, err := c.readFlowRuns(ctx, stateTypeFilter("RUNNING"), dashboardQueryLimit, "")
	if err != nil {
		return &DashboardResult{Error: fmt.Sprintf("failed to query running flow runs: %v", err)}
	}

	pending, err := c.readFlowRuns(ctx, stateTypeFilter("PENDING", "SCHEDULED"), dashboardQueryLimit, "")
	if err != nil {
		return &DashboardResult{Error: fmt.Sprintf("failed to query pending flow runs: %v", err)}
	}

	failedFilter := stateTypeFilter("FAILED", "CRASHED")
	failedFilter["start_time"] = map[string]any{
		"after_": now.Add(-time.Hour).Format(time.RFC3339),
	}
	failed, err := c.readFlowRuns(ctx, failedFilter, dashboardQueryLimit, "START_TIME_DESC")
	if err != nil {
		return &DashboardResult{Error: fmt.Sprintf("failed to query recent failures: %v", err)}
	}

	failures := make([]FlowRunSummary, len(failed))
	for i, run := range failed {
		failures[i] = run.summary()
	}

	dashboard := &Dashboard{
		Stats: FlowRunStats{
			Running: len(running),
			Pending: len(pending),
			Failed:  len(failed),
			Total:   len(running) + len(pending) + len(failed),
		},
		RecentFailures: failures,
		Timestamp:      now,
	}

	// Work pool failures should not hide the run stats
	if pools := c.ListWorkPools(ctx, 0); pools.Success {
		dashboard.WorkPools = pools.WorkPools
	}

	return &DashboardResult{Success: true, Dashboard: dashboard}
}

func stateTypeFilter(types ...string) map[string]any {
	return map[string]any{
		"state": map[string]any{
			"type": map[string]any{"any_": types},
		},
	}
}
