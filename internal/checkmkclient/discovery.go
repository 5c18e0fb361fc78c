package checkmkclient

import (
	"context"
	"encoding/json"
)

const familyDiscovery = "discovery"

// DiscoveredService is one service as reported by Checkmk's service
// discovery for a host, carrying the effective parameters Checkmk itself
// computed. The parameter engine prefers this over its own rule
// evaluation.
type DiscoveredService struct {
	Description string                 `json:"service_name"`
	CheckPlugin string                 `json:"check_plugin_name"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Phase       string                 `json:"phase,omitempty"` // "monitored", "undecided", "ignored"
}

// ServiceDiscovery fetches the discovery result for one host.
func (c *Client) ServiceDiscovery(ctx context.Context, hostName string) ([]DiscoveredService, error) {
	raw, _, err := c.do(ctx, familyDiscovery, "GET", "/objects/service_discovery/"+hostName, nil)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return nil, &NotFoundError{ResourceType: "service_discovery", ResourceID: hostName}
		}
		return nil, err
	}

	var env struct {
		Extensions struct {
			CheckTable map[string]struct {
				Extensions map[string]interface{} `json:"extensions"`
			} `json:"check_table"`
		} `json:"extensions"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding service discovery: " + err.Error()}
	}

	services := make([]DiscoveredService, 0, len(env.Extensions.CheckTable))
	for _, entry := range env.Extensions.CheckTable {
		svc := DiscoveredService{}
		if name, ok := entry.Extensions["service_name"].(string); ok {
			svc.Description = name
		}
		if plugin, ok := entry.Extensions["check_plugin_name"].(string); ok {
			svc.CheckPlugin = plugin
		}
		if params, ok := entry.Extensions["service_parameters"].(map[string]interface{}); ok {
			svc.Parameters = params
		} else if params, ok := entry.Extensions["parameters"].(map[string]interface{}); ok {
			svc.Parameters = params
		}
		if phase, ok := entry.Extensions["service_phase"].(string); ok {
			svc.Phase = phase
		}
		services = append(services, svc)
	}
	return services, nil
}
