package platform

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultEventLookback is applied when the caller gives no time range
const DefaultEventLookback = time.Hour

type apiEvent struct {
	ID       string            `json:"id"`
	Event    string            `json:"event"`
	Occurred string            `json:"occurred"`
	Resource map[string]string `json:"resource"`
	Related  []map[string]string `json:"related"`
	Payload  struct {
		ValidatedState struct {
			Type    string `json:"type"`
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"validated_state"`
	} `json:"payload"`
	Follows string `json:"follows"`
}

// shape flattens a raw event into the compact form agents consume
func (e apiEvent) shape() Event {
	event := Event{
		ID:        e.ID,
		EventType: e.Event,
		Occurred:  e.Occurred,
		Follows:   e.Follows,
	}

	resourceName := e.Resource["prefect.resource.name"]
	event.ResourceName = resourceName
	event.ResourceID = e.Resource["prefect.resource.id"]

	// State comes from the resource labels when present, falling back to
	// the payload's validated state
	event.StateType = firstNonEmpty(e.Resource["prefect.state-type"], e.Payload.ValidatedState.Type)
	event.StateName = firstNonEmpty(e.Resource["prefect.state-name"], e.Payload.ValidatedState.Name)
	event.StateMessage = firstNonEmpty(e.Resource["prefect.state-message"], e.Payload.ValidatedState.Message)

	for _, related := range e.Related {
		if related["prefect.resource.role"] == "flow" {
			event.FlowName = related["prefect.resource.name"]
		}
	}

	// Resource names look like "run-name/suffix" for flow-run events
	if idx := strings.Index(resourceName, "/"); idx >= 0 {
		event.FlowRunName = resourceName[:idx]
	} else {
		event.FlowRunName = resourceName
	}

	for key, value := range e.Resource {
		if tag, ok := strings.CutPrefix(key, "prefect.tag."); ok {
			if value == "true" {
				event.Tags = append(event.Tags, tag)
			} else {
				event.Tags = append(event.Tags, tag+":"+value)
			}
		}
	}
	return event
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ReadEvents returns recent orchestration events, newest first. With no
// explicit time range the lookback defaults to the last hour.
func (c *Client) ReadEvents(ctx context.Context, eventPrefix string, limit int, occurredAfter, occurredBefore *time.Time) *EventsResult {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	filter := make(map[string]any)
	if eventPrefix != "" {
		filter["event"] = map[string]any{"prefix": []string{eventPrefix}}
	}

	if occurredAfter == nil && occurredBefore == nil {
		now := time.Now().UTC()
		after := now.Add(-DefaultEventLookback)
		occurredAfter, occurredBefore = &after, &now
	}
	occurred := make(map[string]any)
	if occurredAfter != nil {
		occurred["since"] = occurredAfter.Format(time.RFC3339)
	}
	if occurredBefore != nil {
		occurred["until"] = occurredBefore.Format(time.RFC3339)
	}
	filter["occurred"] = occurred

	body := map[string]any{
		"filter": filter,
		"limit":  limit,
	}

	var resp struct {
		Events []apiEvent `json:"events"`
		Total  int        `json:"total"`
	}
	if err := c.post(ctx, "/events/filter", body, &resp); err != nil {
		return &EventsResult{Events: []Event{}, Error: fmt.Sprintf("failed to fetch events: %v", err)}
	}

	events := make([]Event, len(resp.Events))
	for i, raw := range resp.Events {
		events[i] = raw.shape()
	}
	return &EventsResult{Success: true, Count: len(events), Total: resp.Total, Events: events}
}
