package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SelectsByPriority(t *testing.T) {
	r := NewDefaultRegistry()

	// "Oracle Temperature" matches both the temperature and the database
	// service patterns; the higher-priority temperature handler wins. The
	// remaining names each match a single family.
	m := r.Select("Oracle Temperature", "")
	require.NotNil(t, m)
	assert.Equal(t, "temperature", m.Handler.Name())

	m = r.Select("Temperature Zone 0", "")
	require.NotNil(t, m)
	assert.Equal(t, "temperature", m.Handler.Name())

	m = r.Select("MySQL Connections", "")
	require.NotNil(t, m)
	assert.Equal(t, "database", m.Handler.Name())

	m = r.Select("HTTP example.com", "")
	require.NotNil(t, m)
	assert.Equal(t, "network", m.Handler.Name())

	m = r.Select("MRPE check_foo", "")
	require.NotNil(t, m)
	assert.Equal(t, "custom_checks", m.Handler.Name())
}

func TestRegistry_NoMatchReturnsNil(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Nil(t, r.Select("Filesystem /var", ""))
}

func TestRegistry_RulesetMatchWinsTies(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "by-service", priority: 10, servicePats: []string{`(?i)widget`}}))
	require.NoError(t, r.Register(&fakeHandler{name: "by-ruleset", priority: 10, rulesetPats: []string{`widget_params`}}))

	m := r.Select("Widget Status", "checkgroup_parameters:widget_params")
	require.NotNil(t, m)
	assert.Equal(t, "by-ruleset", m.Handler.Name())
	assert.True(t, m.RulesetMatched)
}

func TestRegistry_HigherPriorityBeatsRulesetMatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "low", priority: 10, rulesetPats: []string{`widget`}}))
	require.NoError(t, r.Register(&fakeHandler{name: "high", priority: 20, servicePats: []string{`(?i)widget`}}))

	m := r.Select("Widget Status", "checkgroup_parameters:widget_params")
	require.NotNil(t, m)
	assert.Equal(t, "high", m.Handler.Name())
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "dup"}))
	assert.Error(t, r.Register(&fakeHandler{name: "dup"}))
}

func TestRegistry_BadPatternRejected(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(&fakeHandler{name: "bad", servicePats: []string{`([`}}))
}

func TestRegistry_CachesResolutions(t *testing.T) {
	r := NewDefaultRegistry()
	first := r.Select("Temperature Zone 0", "")
	second := r.Select("Temperature Zone 0", "")
	assert.Same(t, first, second)
}

func TestRegistry_ListOrderedByPriority(t *testing.T) {
	r := NewDefaultRegistry()
	list := r.List()
	require.Len(t, list, 4)
	assert.Equal(t, "temperature", list[0].Name())
	assert.Equal(t, "custom_checks", list[3].Name())
}

func TestRegistry_ByName(t *testing.T) {
	r := NewDefaultRegistry()
	assert.NotNil(t, r.ByName("database"))
	assert.Nil(t, r.ByName("nope"))
}

// fakeHandler is a minimal Handler for registry tests.
type fakeHandler struct {
	name        string
	priority    int
	servicePats []string
	rulesetPats []string
}

func (f *fakeHandler) Name() string              { return f.name }
func (f *fakeHandler) Priority() int             { return f.priority }
func (f *fakeHandler) ServicePatterns() []string { return f.servicePats }
func (f *fakeHandler) RulesetPatterns() []string { return f.rulesetPats }
func (f *fakeHandler) DefaultRuleset() string    { return "" }
func (f *fakeHandler) Defaults(string, Context) map[string]interface{} {
	return nil
}
func (f *fakeHandler) Normalize(p map[string]interface{}) (map[string]interface{}, []string) {
	return p, nil
}
func (f *fakeHandler) Validate(map[string]interface{}) []Issue { return nil }
func (f *fakeHandler) Suggest(map[string]interface{}, Context) []Suggestion {
	return nil
}
