// Package tools defines the fixed MCP tool catalog and its adapters. Each
// tool is a pure translation layer: JSON arguments in, typed service inputs
// out, service results back as JSON. The catalog is assembled once at
// startup from eight category modules and is immutable afterwards.
package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"checkmkmcp/internal/config"
	"checkmkmcp/internal/params"
	"checkmkmcp/internal/services"
)

// Tool categories.
const (
	CategoryHost       = "host"
	CategoryService    = "service"
	CategoryMonitoring = "monitoring"
	CategoryParameters = "parameters"
	CategoryEvents     = "events"
	CategoryMetrics    = "metrics"
	CategoryBusiness   = "business"
	CategoryAdvanced   = "advanced"
)

// Handler executes one tool invocation, returning the data payload plus
// non-fatal warnings. Argument errors are returned as *api.ArgumentError so
// the dispatcher can surface path+reason without invoking anything.
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error)

// Definition binds one MCP tool to its category and handler.
type Definition struct {
	Tool     mcp.Tool
	Category string
	Handler  Handler
}

// Deps carries the service facade the category modules adapt.
type Deps struct {
	Hosts    *services.HostService
	Services *services.ServiceService
	Status   *services.StatusService
	Events   *services.EventService
	Metrics  *services.MetricService
	BI       *services.BIService
	Advanced *services.AdvancedService
	Params   *params.Engine
	Features config.FeaturesConfig
}

// Registry is the immutable tool catalog.
type Registry struct {
	defs   []Definition
	byName map[string]Definition
}

// NewRegistry composes the category modules into one catalog. The events,
// metrics, and business categories are gated by feature flags; everything
// else is always present.
func NewRegistry(d Deps) *Registry {
	r := &Registry{byName: make(map[string]Definition)}

	r.add(hostTools(d)...)
	r.add(serviceTools(d)...)
	r.add(monitoringTools(d)...)
	r.add(parameterTools(d)...)
	if d.Features.EventConsole {
		r.add(eventTools(d)...)
	}
	if d.Features.MetricsAPI {
		r.add(metricTools(d)...)
	}
	if d.Features.BusinessIntelligence {
		r.add(businessTools(d)...)
	}
	r.add(advancedTools(d)...)

	return r
}

func (r *Registry) add(defs ...Definition) {
	for _, def := range defs {
		if _, exists := r.byName[def.Tool.Name]; exists {
			// Duplicate names are a programming error caught at startup.
			panic(fmt.Sprintf("tools: duplicate tool name %q", def.Tool.Name))
		}
		r.byName[def.Tool.Name] = def
		r.defs = append(r.defs, def)
	}
}

// Definitions returns every registered tool in registration order.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// Get resolves a tool by name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Categories lists tool names grouped by category.
func (r *Registry) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, def := range r.defs {
		out[def.Category] = append(out[def.Category], def.Tool.Name)
	}
	return out
}
