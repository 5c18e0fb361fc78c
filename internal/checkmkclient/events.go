package checkmkclient

import (
	"context"
	"encoding/json"
)

const familyEvents = "events"

// EventQuery filters the event-console listing/search operations.
type EventQuery struct {
	Host    string
	Service string
	Search  string
}

// ListEvents lists Event Console entries matching q. An empty result is a
// normal, successful outcome — never an error.
func (c *Client) ListEvents(ctx context.Context, q EventQuery) ([]Event, error) {
	query := map[string]interface{}{}
	if q.Host != "" {
		query["host"] = q.Host
	}
	if q.Service != "" {
		query["service"] = q.Service
	}
	if q.Search != "" {
		query["query"] = q.Search
	}

	raw, _, err := c.do(ctx, familyEvents, "POST", "/domain-types/event_console/collections/all", query,
		WithFallback(func() (json.RawMessage, string, error) {
			return json.RawMessage(`{"value":[]}`), "", nil
		}))
	if err != nil {
		return nil, err
	}

	var env struct {
		Value []struct {
			ID         string                 `json:"id"`
			Extensions map[string]interface{} `json:"extensions"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding event list: " + err.Error()}
	}

	events := make([]Event, 0, len(env.Value))
	for _, v := range env.Value {
		e := Event{ID: v.ID}
		if host, ok := v.Extensions["host"].(string); ok {
			e.Host = host
		}
		if svc, ok := v.Extensions["service"].(string); ok {
			e.Service = svc
		}
		if text, ok := v.Extensions["text"].(string); ok {
			e.Text = text
		}
		if phase, ok := v.Extensions["phase"].(string); ok {
			e.Phase = phase
		}
		if state, ok := v.Extensions["state"].(float64); ok {
			e.State = ServiceState(int(state))
		}
		if ack, ok := v.Extensions["acknowledged"].(bool); ok {
			e.Acknowledged = ack
		}
		if t, ok := v.Extensions["time"].(float64); ok {
			e.Time = int64(t)
		}
		events = append(events, e)
	}
	return events, nil
}

// AcknowledgeEvent acknowledges one Event Console entry.
func (c *Client) AcknowledgeEvent(ctx context.Context, id, comment string) error {
	body := map[string]interface{}{"event_id": id, "comment": comment}
	_, _, err := c.do(ctx, familyEvents, "POST", "/domain-types/event_console/actions/acknowledge/invoke", body)
	return err
}
