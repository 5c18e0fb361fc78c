package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmkmcp/internal/config"
	"checkmkmcp/internal/params"
	"checkmkmcp/internal/params/handlers"
)

func testDeps(features config.FeaturesConfig) Deps {
	return Deps{
		Params:   params.NewEngine(nil, handlers.NewDefaultRegistry(), handlers.DefaultPolicies()),
		Features: features,
	}
}

func allFeatures() config.FeaturesConfig {
	return config.FeaturesConfig{EventConsole: true, MetricsAPI: true, BusinessIntelligence: true}
}

func TestRegistry_FullCatalog(t *testing.T) {
	r := NewRegistry(testDeps(allFeatures()))
	assert.Equal(t, 37, r.Len())

	categories := r.Categories()
	assert.Len(t, categories[CategoryHost], 6)
	assert.Len(t, categories[CategoryService], 3)
	assert.Len(t, categories[CategoryMonitoring], 3)
	assert.Len(t, categories[CategoryParameters], 11)
	assert.Len(t, categories[CategoryEvents], 5)
	assert.Len(t, categories[CategoryMetrics], 2)
	assert.Len(t, categories[CategoryBusiness], 2)
	assert.Len(t, categories[CategoryAdvanced], 5)
}

func TestRegistry_NamesAreUniqueAndDescribed(t *testing.T) {
	r := NewRegistry(testDeps(allFeatures()))

	seen := map[string]bool{}
	for _, def := range r.Definitions() {
		require.False(t, seen[def.Tool.Name], "duplicate tool %s", def.Tool.Name)
		seen[def.Tool.Name] = true
		assert.NotEmpty(t, def.Tool.Description, "tool %s has no description", def.Tool.Name)
		assert.NotEmpty(t, def.Category, "tool %s has no category", def.Tool.Name)
		assert.NotNil(t, def.Handler, "tool %s has no handler", def.Tool.Name)
	}
}

func TestRegistry_FeatureGates(t *testing.T) {
	r := NewRegistry(testDeps(config.FeaturesConfig{}))
	assert.Equal(t, 28, r.Len())

	_, ok := r.Get("list_service_events")
	assert.False(t, ok)
	_, ok = r.Get("get_service_metrics")
	assert.False(t, ok)
	_, ok = r.Get("get_business_status_summary")
	assert.False(t, ok)

	// The non-gated categories are always present.
	_, ok = r.Get("list_hosts")
	assert.True(t, ok)
	_, ok = r.Get("get_effective_parameters")
	assert.True(t, ok)
}

func TestRegistry_StableToolNames(t *testing.T) {
	r := NewRegistry(testDeps(allFeatures()))
	for _, name := range []string{
		"list_hosts", "create_host", "get_host", "update_host", "delete_host", "list_host_services",
		"list_all_services", "acknowledge_service_problem", "create_service_downtime",
		"get_health_dashboard", "get_critical_problems", "analyze_host_health",
		"get_effective_parameters", "set_service_parameters", "discover_service_ruleset",
		"get_parameter_schema", "validate_service_parameters", "update_parameter_rule",
		"get_service_handler_info", "get_specialized_defaults", "validate_with_handler",
		"get_parameter_suggestions", "list_parameter_handlers",
		"list_service_events", "list_host_events", "get_recent_critical_events",
		"acknowledge_event", "search_events",
		"get_service_metrics", "get_metric_history",
		"get_business_status_summary", "get_critical_business_services",
		"get_system_info", "stream_hosts", "batch_create_hosts", "get_server_metrics", "clear_cache",
	} {
		_, ok := r.Get(name)
		assert.True(t, ok, "missing tool %s", name)
	}
}
