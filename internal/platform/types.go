package platform

import "time"

// FlowRunSummary is the compact flow-run shape used in listings
type FlowRunSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StateType string     `json:"state_type,omitempty"`
	StateName string     `json:"state_name,omitempty"`
	Created   *time.Time `json:"created,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

// FlowRunDetail is the full flow-run shape returned by GetFlowRun
type FlowRunDetail struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	StateType       string         `json:"state_type,omitempty"`
	StateName       string         `json:"state_name,omitempty"`
	StateMessage    string         `json:"state_message,omitempty"`
	Created         *time.Time     `json:"created,omitempty"`
	Updated         *time.Time     `json:"updated,omitempty"`
	StartTime       *time.Time     `json:"start_time,omitempty"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	Duration        *float64       `json:"duration,omitempty"` // Seconds
	Parameters      map[string]any `json:"parameters,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	DeploymentID    string         `json:"deployment_id,omitempty"`
	WorkQueueName   string         `json:"work_queue_name,omitempty"`
	WorkPoolName    string         `json:"work_pool_name,omitempty"`
	ParentTaskRunID string         `json:"parent_task_run_id,omitempty"`
}

// LogEntry is one flow-run log line
type LogEntry struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Level     int        `json:"level"`
	Message   string     `json:"message"`
	Name      string     `json:"name,omitempty"`
}

// Flow is a registered flow
type Flow struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Tags    []string   `json:"tags,omitempty"`
	Created *time.Time `json:"created,omitempty"`
}

// Deployment describes a deployment with its owning flow resolved
type Deployment struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	FlowID       string           `json:"flow_id,omitempty"`
	FlowName     string           `json:"flow_name,omitempty"`
	Paused       bool             `json:"paused"`
	WorkPoolName string           `json:"work_pool_name,omitempty"`
	Schedules    []string         `json:"schedules,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	RecentRuns   []FlowRunSummary `json:"recent_runs,omitempty"`
}

// WorkPool describes a work pool
type WorkPool struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type,omitempty"`
	Paused           bool   `json:"paused"`
	ConcurrencyLimit *int   `json:"concurrency_limit,omitempty"`
	Status           string `json:"status,omitempty"`
}

// Event is one orchestration event shaped for agent consumption
type Event struct {
	ID           string   `json:"id"`
	EventType    string   `json:"event_type"`
	Occurred     string   `json:"occurred,omitempty"`
	ResourceName string   `json:"resource_name,omitempty"`
	ResourceID   string   `json:"resource_id,omitempty"`
	StateType    string   `json:"state_type,omitempty"`
	StateName    string   `json:"state_name,omitempty"`
	StateMessage string   `json:"state_message,omitempty"`
	FlowName     string   `json:"flow_name,omitempty"`
	FlowRunName  string   `json:"flow_run_name,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Follows      string   `json:"follows,omitempty"`
}

// FlowRunStats are current-state counts for the dashboard
type FlowRunStats struct {
	Total   int `json:"total"`
	Running int `json:"running"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// Dashboard is a point-in-time operational overview
type Dashboard struct {
	Stats          FlowRunStats     `json:"stats"`
	RecentFailures []FlowRunSummary `json:"recent_failures,omitempty"`
	WorkPools      []WorkPool       `json:"work_pools,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Identity describes the connected orchestration server
type Identity struct {
	APIURL  string `json:"api_url"`
	Version string `json:"version,omitempty"`
	Mode    string `json:"mode,omitempty"` // server or cloud
}

// Result envelopes. Every operation returns success/payload/error so the
// protocol layer can pass them straight through to agent clients.

type DashboardResult struct {
	Success   bool       `json:"success"`
	Dashboard *Dashboard `json:"dashboard"`
	Error     string     `json:"error,omitempty"`
}

type FlowsResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Flows   []Flow `json:"flows"`
	Error   string `json:"error,omitempty"`
}

type FlowRunsResult struct {
	Success  bool             `json:"success"`
	Count    int              `json:"count"`
	FlowRuns []FlowRunSummary `json:"flow_runs"`
	Error    string           `json:"error,omitempty"`
}

type FlowRunResult struct {
	Success  bool           `json:"success"`
	FlowRun  *FlowRunDetail `json:"flow_run"`
	Logs     []LogEntry     `json:"logs,omitempty"`
	LogError string         `json:"log_error,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type LogsResult struct {
	Success bool       `json:"success"`
	Count   int        `json:"count"`
	Logs    []LogEntry `json:"logs"`
	Error   string     `json:"error,omitempty"`
}

type DeploymentsResult struct {
	Success     bool         `json:"success"`
	Count       int          `json:"count"`
	Deployments []Deployment `json:"deployments"`
	Error       string       `json:"error,omitempty"`
}

type RunDeploymentResult struct {
	Success bool            `json:"success"`
	FlowRun *FlowRunSummary `json:"flow_run"`
	Error   string          `json:"error,omitempty"`
}

type WorkPoolsResult struct {
	Success   bool       `json:"success"`
	Count     int        `json:"count"`
	WorkPools []WorkPool `json:"work_pools"`
	Error     string     `json:"error,omitempty"`
}

type WorkPoolResult struct {
	Success  bool      `json:"success"`
	WorkPool *WorkPool `json:"work_pool"`
	Error    string    `json:"error,omitempty"`
}

type EventsResult struct {
	Success bool    `json:"success"`
	Count   int     `json:"count"`
	Total   int     `json:"total"`
	Events  []Event `json:"events"`
	Error   string  `json:"error,omitempty"`
}

type IdentityResult struct {
	Success  bool      `json:"success"`
	Identity *Identity `json:"identity"`
	Error    string    `json:"error,omitempty"`
}
