package handlers

import "strings"

// PolicyContext carries the cross-handler decisions a policy may consult.
type PolicyContext struct {
	// IncludeTrending re-includes trend-related sub-parameters that are
	// otherwise omitted from generated rules.
	IncludeTrending bool
	// ExistingValue is the current rule value on updates; keys it already
	// carries are preserved even when a policy would otherwise drop them.
	ExistingValue map[string]interface{}
}

// Policy is one filtering strategy applied to a parameter map after handler
// normalization and before validation.
type Policy interface {
	Name() string
	Apply(params map[string]interface{}, pctx PolicyContext) map[string]interface{}
}

// ApplyPolicies runs each policy in order over params.
func ApplyPolicies(policies []Policy, params map[string]interface{}, pctx PolicyContext) map[string]interface{} {
	out := params
	for _, p := range policies {
		out = p.Apply(out, pctx)
	}
	return out
}

// DefaultPolicies returns the standard policy chain.
func DefaultPolicies() []Policy {
	return []Policy{TrendingParameterFilter{}}
}

// TrendingParameterFilter omits trend-related sub-parameters (prediction
// horizons, rate-of-change windows) from generated rules unless the caller
// opts in or the existing rule already carries them.
type TrendingParameterFilter struct{}

// Name identifies the policy.
func (TrendingParameterFilter) Name() string { return "trending_parameter_filter" }

// Apply filters trending keys out of params per the context.
func (TrendingParameterFilter) Apply(params map[string]interface{}, pctx PolicyContext) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		if isTrendingKey(k) && !pctx.IncludeTrending {
			if _, existing := pctx.ExistingValue[k]; !existing {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// isTrendingKey recognizes the trend/prediction sub-parameter families used
// across Checkmk rulesets (trend_range, trend_levels, trend_perfdata,
// prediction horizons).
func isTrendingKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasPrefix(lower, "trend") || strings.Contains(lower, "prediction") || strings.Contains(lower, "predictive")
}
