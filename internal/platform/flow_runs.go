package platform

import (
	"context"
	"fmt"
	"time"
)

// apiFlowRun is the wire shape returned by the orchestration API
type apiFlowRun struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StateType string `json:"state_type"`
	StateName string `json:"state_name"`
	State     *struct {
		Message string `json:"message"`
	} `json:"state"`
	Created         *time.Time     `json:"created"`
	Updated         *time.Time     `json:"updated"`
	StartTime       *time.Time     `json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`
	Parameters      map[string]any `json:"parameters"`
	Tags            []string       `json:"tags"`
	DeploymentID    string         `json:"deployment_id"`
	WorkQueueName   string         `json:"work_queue_name"`
	WorkPoolName    string         `json:"work_pool_name"`
	ParentTaskRunID string         `json:"parent_task_run_id"`
}

func (r apiFlowRun) summary() FlowRunSummary {
	return FlowRunSummary{
		ID:        r.ID,
		Name:      r.Name,
		StateType: r.StateType,
		StateName: r.StateName,
		Created:   r.Created,
		StartTime: r.StartTime,
	}
}

func (r apiFlowRun) detail() *FlowRunDetail {
	detail := &FlowRunDetail{
		ID:              r.ID,
		Name:            r.Name,
		StateType:       r.StateType,
		StateName:       r.StateName,
		Created:         r.Created,
		Updated:         r.Updated,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Parameters:      r.Parameters,
		Tags:            r.Tags,
		DeploymentID:    r.DeploymentID,
		WorkQueueName:   r.WorkQueueName,
		WorkPoolName:    r.WorkPoolName,
		ParentTaskRunID: r.ParentTaskRunID,
	}
	if r.State != nil {
		detail.StateMessage = r.State.Message
	}
	if r.StartTime != nil && r.EndTime != nil {
		seconds := r.EndTime.Sub(*r.StartTime).Seconds()
		detail.Duration = &seconds
	}
	return detail
}

// readFlowRuns runs a filter query against /flow_runs/filter
func (c *Client) readFlowRuns(ctx context.Context, filter map[string]any, limit int, sort string) ([]apiFlowRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	body := map[string]any{"limit": limit}
	if filter != nil {
		body["flow_runs"] = filter
	}
	if sort != "" {
		body["sort"] = sort
	}

	var runs []apiFlowRun
	if err := c.post(ctx, "/flow_runs/filter", body, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListFlowRuns returns flow runs matching an optional filter, newest first.
// The filter uses the orchestration API's filter grammar, for example
// {"state": {"type": {"any_": ["FAILED"]}}}.
func (c *Client) ListFlowRuns(ctx context.Context, filter map[string]any, limit int) *FlowRunsResult {
	runs, err := c.readFlowRuns(ctx, filter, limit, "START_TIME_DESC")
	if err != nil {
		return &FlowRunsResult{Error: fmt.Sprintf("failed to list flow runs: %v", err)}
	}

	summaries := make([]FlowRunSummary, len(runs))
	for i, run := range runs {
		summaries[i] = run.summary()
	}
	return &FlowRunsResult{Success: true, Count: len(summaries), FlowRuns: summaries}
}

// GetFlowRun returns one flow run by ID, optionally with its logs. A log
// fetch failure is reported alongside the run rather than failing the call.
func (c *Client) GetFlowRun(ctx context.Context, flowRunID string, includeLogs bool) *FlowRunResult {
	var run apiFlowRun
	if err := c.get(ctx, "/flow_runs/"+flowRunID, &run); err != nil {
		return &FlowRunResult{Error: fmt.Sprintf("failed to get flow run: %v", err)}
	}

	result := &FlowRunResult{Success: true, FlowRun: run.detail()}
	if includeLogs {
		logs := c.GetFlowRunLogs(ctx, flowRunID, 0)
		if logs.Success {
			result.Logs = logs.Logs
		} else {
			result.Logs = []LogEntry{}
			result.LogError = fmt.Sprintf("could not fetch logs: %s", logs.Error)
		}
	}
	return result
}

// GetFlowRunLogs returns a flow run's logs in timestamp order
func (c *Client) GetFlowRunLogs(ctx context.Context, flowRunID string, limit int) *LogsResult {
	if limit <= 0 {
		limit = 200
	}

	body := map[string]any{
		"logs": map[string]any{
			"flow_run_id": map[string]any{"any_": []string{flowRunID}},
		},
		"sort":  "TIMESTAMP_ASC",
		"limit": limit,
	}

	var logs []LogEntry
	if err := c.post(ctx, "/logs/filter", body, &logs); err != nil {
		return &LogsResult{Error: fmt.Sprintf("failed to fetch logs: %v", err)}
	}
	return &LogsResult{Success: true, Count: len(logs), Logs: logs}
}

// ListFlows returns registered flows by name
func (c *Client) ListFlows(ctx context.Context, limit int) *FlowsResult {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var flows []Flow
	body := map[string]any{"limit": limit, "sort": "NAME_ASC"}
	if err := c.post(ctx, "/flows/filter", body, &flows); err != nil {
		return &FlowsResult{Error: fmt.Sprintf("failed to list flows: %v", err)}
	}
	return &FlowsResult{Success: true, Count: len(flows), Flows: flows}
}
