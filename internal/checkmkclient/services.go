package checkmkclient

import (
	"context"
	"encoding/json"
	"time"
)

const familyServices = "services"

func decodeServiceList(raw json.RawMessage) ([]Service, error) {
	var env struct {
		Value []struct {
			Title      string                 `json:"title"`
			Extensions map[string]interface{} `json:"extensions"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding service list: " + err.Error()}
	}

	services := make([]Service, 0, len(env.Value))
	for _, v := range env.Value {
		svc := Service{Description: v.Title}
		if host, ok := v.Extensions["host_name"].(string); ok {
			svc.HostName = host
		}
		// state 0 (OK) must be honored: extract via ok, never via truthiness
		if state, ok := v.Extensions["state"].(float64); ok {
			svc.State = ServiceState(int(state))
		}
		if st, ok := v.Extensions["state_type"].(float64); ok {
			svc.StateType = StateTypeName(int(st))
		} else if st, ok := v.Extensions["state_type"].(string); ok {
			svc.StateType = st
		}
		if ack, ok := v.Extensions["acknowledged"].(bool); ok {
			svc.Acknowledged = ack
		}
		if dt, ok := v.Extensions["in_downtime"].(bool); ok {
			svc.InDowntime = dt
		}
		if output, ok := v.Extensions["plugin_output"].(string); ok {
			svc.PluginOutput = output
		}
		if cmd, ok := v.Extensions["check_command"].(string); ok {
			svc.CheckCommand = cmd
		}
		services = append(services, svc)
	}
	return services, nil
}

// ListAllServicesParams filters ListAllServices.
type ListAllServicesParams struct {
	HostFilter    string
	StateFilter   *ServiceState
	Columns       []string
}

// ListAllServices lists services across all hosts via the monitoring
// collection endpoint, using POST with a JSON query body.
func (c *Client) ListAllServices(ctx context.Context, p ListAllServicesParams) ([]Service, error) {
	query := map[string]interface{}{}
	if p.HostFilter != "" {
		query["host_name"] = p.HostFilter
	}
	if p.StateFilter != nil {
		query["state"] = int(*p.StateFilter)
	}
	if len(p.Columns) > 0 {
		query["columns"] = p.Columns
	}

	raw, _, err := c.do(ctx, familyServices, "POST", "/domain-types/service/collections/all", query,
		WithFallback(func() (json.RawMessage, string, error) {
			return json.RawMessage(`{"value":[]}`), "", nil
		}))
	if err != nil {
		return nil, err
	}
	return decodeServiceList(raw)
}

// AcknowledgeParams configures AcknowledgeProblem.
type AcknowledgeParams struct {
	HostName    string
	Description string
	Comment     string
	Sticky      bool
	Persistent  bool
	Notify      bool
	ExpiresAt   *time.Time
}

// AcknowledgeProblem acknowledges a service problem.
func (c *Client) AcknowledgeProblem(ctx context.Context, p AcknowledgeParams) error {
	body := map[string]interface{}{
		"acknowledge_type": "service",
		"host_name":        p.HostName,
		"service_descriptions": []string{p.Description},
		"sticky":           p.Sticky,
		"persistent":       p.Persistent,
		"notify":           p.Notify,
		"comment":          p.Comment,
	}
	if p.ExpiresAt != nil {
		body["expire_on"] = p.ExpiresAt.UTC().Format(time.RFC3339)
	}
	_, _, err := c.do(ctx, familyServices, "POST", "/domain-types/acknowledge/collections/service", body)
	return err
}

// DowntimeParams configures CreateDowntime.
type DowntimeParams struct {
	HostName    string
	Description string
	Comment     string
	Start       time.Time
	End         time.Time
}

// CreateDowntime schedules a downtime for a service.
func (c *Client) CreateDowntime(ctx context.Context, p DowntimeParams) error {
	body := map[string]interface{}{
		"downtime_type":        "service",
		"host_name":            p.HostName,
		"service_descriptions": []string{p.Description},
		"start_time":           p.Start.UTC().Format(time.RFC3339),
		"end_time":             p.End.UTC().Format(time.RFC3339),
		"comment":              p.Comment,
	}
	_, _, err := c.do(ctx, familyServices, "POST", "/domain-types/downtime/collections/service", body)
	return err
}
