package platform

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const recentRunsPerDeployment = 5

type apiDeployment struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	FlowID       string   `json:"flow_id"`
	Paused       bool     `json:"paused"`
	WorkPoolName string   `json:"work_pool_name"`
	Tags         []string `json:"tags"`
	Schedules    []struct {
		Schedule struct {
			Cron     string `json:"cron"`
			Interval float64 `json:"interval"`
		} `json:"schedule"`
	} `json:"schedules"`
}

// ListDeployments returns deployments with flow names resolved and a few
// recent runs attached. nameLike filters deployment names when non-empty.
func (c *Client) ListDeployments(ctx context.Context, nameLike string, limit int) *DeploymentsResult {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	body := map[string]any{"limit": limit, "sort": "NAME_ASC"}
	if nameLike != "" {
		body["deployments"] = map[string]any{
			"name": map[string]any{"like_": nameLike},
		}
	}

	var deployments []apiDeployment
	if err := c.post(ctx, "/deployments/filter", body, &deployments); err != nil {
		return &DeploymentsResult{Error: fmt.Sprintf("failed to list deployments: %v", err)}
	}

	flowNames := c.resolveFlowNames(ctx, deployments)
	recentRuns := c.recentRunsByDeployment(ctx, deployments)

	result := make([]Deployment, len(deployments))
	for i, d := range deployments {
		schedules := make([]string, 0, len(d.Schedules))
		for _, s := range d.Schedules {
			switch {
			case s.Schedule.Cron != "":
				schedules = append(schedules, "cron: "+s.Schedule.Cron)
			case s.Schedule.Interval > 0:
				schedules = append(schedules, fmt.Sprintf("interval: %.0fs", s.Schedule.Interval))
			}
		}

		result[i] = Deployment{
			ID:           d.ID,
			Name:         d.Name,
			FlowID:       d.FlowID,
			FlowName:     flowNames[d.FlowID],
			Paused:       d.Paused,
			WorkPoolName: d.WorkPoolName,
			Schedules:    schedules,
			Tags:         d.Tags,
			RecentRuns:   recentRuns[d.ID],
		}
	}
	return &DeploymentsResult{Success: true, Count: len(result), Deployments: result}
}

// resolveFlowNames batch-fetches flow names for the deployments' flow IDs.
// Resolution failures leave names empty rather than failing the listing.
func (c *Client) resolveFlowNames(ctx context.Context, deployments []apiDeployment) map[string]string {
	names := make(map[string]string)

	idSet := make(map[string]struct{})
	for _, d := range deployments {
		if d.FlowID != "" {
			idSet[d.FlowID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return names
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var flows []Flow
	body := map[string]any{
		"flows": map[string]any{"id": map[string]any{"any_": ids}},
		"limit": len(ids),
	}
	if err := c.post(ctx, "/flows/filter", body, &flows); err != nil {
		return names
	}
	for _, flow := range flows {
		names[flow.ID] = flow.Name
	}
	return names
}

// recentRunsByDeployment batch-fetches recent runs grouped by deployment
func (c *Client) recentRunsByDeployment(ctx context.Context, deployments []apiDeployment) map[string][]FlowRunSummary {
	grouped := make(map[string][]FlowRunSummary)
	if len(deployments) == 0 {
		return grouped
	}

	ids := make([]string, len(deployments))
	for i, d := range deployments {
		ids[i] = d.ID
	}

	filter := map[string]any{
		"deployment_id": map[string]any{"any_": ids},
	}
	runs, err := c.readFlowRuns(ctx, filter, len(ids)*recentRunsPerDeployment, "START_TIME_DESC")
	if err != nil {
		return grouped
	}

	for _, run := range runs {
		if run.DeploymentID == "" {
			continue
		}
		if len(grouped[run.DeploymentID]) < recentRunsPerDeployment {
			grouped[run.DeploymentID] = append(grouped[run.DeploymentID], run.summary())
		}
	}
	return grouped
}

// RunDeploymentByName creates a flow run from a "flow/deployment" name pair.
// A client-side idempotency key guards against duplicate submissions on
// retried requests.
func (c *Client) RunDeploymentByName(ctx context.Context, flowName, deploymentName string, parameters map[string]any, runName string, tags []string) *RunDeploymentResult {
	if flowName == "" || deploymentName == "" {
		return &RunDeploymentResult{Error: "flow name and deployment name are required"}
	}

	var deployment apiDeployment
	path := fmt.Sprintf("/deployments/name/%s/%s", flowName, deploymentName)
	if err := c.get(ctx, path, &deployment); err != nil {
		return &RunDeploymentResult{Error: fmt.Sprintf("failed to resolve deployment %s/%s: %v", flowName, deploymentName, err)}
	}

	body := map[string]any{
		"idempotency_key": uuid.NewString(),
	}
	if parameters != nil {
		body["parameters"] = parameters
	}
	if runName != "" {
		body["name"] = runName
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}

	var run apiFlowRun
	createPath := fmt.Sprintf("/deployments/%s/create_flow_run", deployment.ID)
	if err := c.post(ctx, createPath, body, &run); err != nil {
		return &RunDeploymentResult{Error: fmt.Sprintf("failed to create flow run: %v", err)}
	}

	summary := run.summary()
	return &RunDeploymentResult{Success: true, FlowRun: &summary}
}
