package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/batch"
	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/metrics"
	"checkmkmcp/internal/params"
	"checkmkmcp/internal/params/handlers"
	"checkmkmcp/internal/services"
)

// discoveryStub satisfies params.CheckmkAPI for the read path only.
type discoveryStub struct {
	services []checkmkclient.DiscoveredService
}

func (s *discoveryStub) ServiceDiscovery(ctx context.Context, host string) ([]checkmkclient.DiscoveredService, error) {
	return s.services, nil
}
func (s *discoveryStub) GetHost(ctx context.Context, name string, eff bool) (*checkmkclient.Host, error) {
	return &checkmkclient.Host{Name: name, FolderPath: "/"}, nil
}
func (s *discoveryStub) ListRulesByRuleset(ctx context.Context, ruleset string) ([]checkmkclient.Rule, error) {
	return nil, nil
}
func (s *discoveryStub) DiscoverRuleset(ctx context.Context, service string) (string, error) {
	return "", nil
}
func (s *discoveryStub) GetRulesetInfo(ctx context.Context, ruleset string) (*checkmkclient.RulesetInfo, error) {
	return nil, nil
}
func (s *discoveryStub) CreateRule(ctx context.Context, p checkmkclient.CreateRuleParams) (string, error) {
	return "rule-1", nil
}
func (s *discoveryStub) GetRule(ctx context.Context, id string) (*checkmkclient.Rule, error) {
	return nil, &checkmkclient.NotFoundError{ResourceType: "rule", ResourceID: id}
}
func (s *discoveryStub) UpdateRule(ctx context.Context, id, etag, ruleset string, value map[string]interface{}) error {
	return nil
}
func (s *discoveryStub) DeleteRule(ctx context.Context, id string) error { return nil }

func TestGetEffectiveParametersHandler(t *testing.T) {
	stub := &discoveryStub{services: []checkmkclient.DiscoveredService{{
		Description: "Temperature Zone 0",
		CheckPlugin: "temperature",
		Parameters:  map[string]interface{}{"levels": []interface{}{70.0, 80.0}},
	}}}
	deps := Deps{
		Params:   params.NewEngine(stub, handlers.NewDefaultRegistry(), handlers.DefaultPolicies()),
		Features: allFeatures(),
	}
	r := NewRegistry(deps)
	def, ok := r.Get("get_effective_parameters")
	require.True(t, ok)

	data, warnings, err := def.Handler(context.Background(), map[string]interface{}{
		"host_name": "piaware",
		"service":   "Temperature Zone 0",
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	result := data.(*params.EffectiveParameters)
	assert.Equal(t, params.SourceServiceDiscovery, result.Source)
	assert.Equal(t, "temperature", result.CheckPlugin)
}

func TestGetEffectiveParametersHandler_MissingArgument(t *testing.T) {
	deps := testDeps(allFeatures())
	r := NewRegistry(deps)
	def, _ := r.Get("get_effective_parameters")

	_, _, err := def.Handler(context.Background(), map[string]interface{}{"host_name": "piaware"})
	var argErr *api.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "service", argErr.Path)
}

func TestClearCacheHandler(t *testing.T) {
	c := cache.New(10, time.Minute, 0)
	c.Set("hosts:list:x", 1, 0)

	deps := testDeps(allFeatures())
	deps.Advanced = services.NewAdvancedService(nil, c, metrics.NewCollector(), batch.Config{}, 10, time.Minute)
	r := NewRegistry(deps)
	def, _ := r.Get("clear_cache")

	data, _, err := def.Handler(context.Background(), map[string]interface{}{"pattern": "hosts:*"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"removed": 1}, data)
}

func TestListParameterHandlersHandler(t *testing.T) {
	r := NewRegistry(testDeps(allFeatures()))
	def, _ := r.Get("list_parameter_handlers")

	data, _, err := def.Handler(context.Background(), nil)
	require.NoError(t, err)
	out := data.(map[string]interface{})
	assert.Equal(t, 4, out["count"])
}

func TestValidateWithHandlerHandler(t *testing.T) {
	r := NewRegistry(testDeps(allFeatures()))
	def, _ := r.Get("validate_with_handler")

	data, _, err := def.Handler(context.Background(), map[string]interface{}{
		"handler": "temperature",
		"parameters": map[string]interface{}{
			"levels": []interface{}{90.0, 80.0},
		},
	})
	require.NoError(t, err)
	out := data.(map[string]interface{})
	assert.Equal(t, false, out["valid"])
}
