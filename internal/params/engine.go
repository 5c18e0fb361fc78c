// Package params computes effective service parameters and writes parameter
// rules at the correct folder. Reads prefer Checkmk's own computation
// (service discovery); rule evaluation with folder-precedence ordering is
// the fallback. Writes normalize values through the handler registry and the
// policy chain before they reach the REST API.
package params

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/params/handlers"
	"checkmkmcp/internal/requestid"
	"checkmkmcp/pkg/logging"
)

// CheckmkAPI is the slice of the REST client the engine needs.
type CheckmkAPI interface {
	ServiceDiscovery(ctx context.Context, hostName string) ([]checkmkclient.DiscoveredService, error)
	GetHost(ctx context.Context, name string, effectiveAttributes bool) (*checkmkclient.Host, error)
	ListRulesByRuleset(ctx context.Context, ruleset string) ([]checkmkclient.Rule, error)
	DiscoverRuleset(ctx context.Context, serviceName string) (string, error)
	GetRulesetInfo(ctx context.Context, ruleset string) (*checkmkclient.RulesetInfo, error)
	CreateRule(ctx context.Context, p checkmkclient.CreateRuleParams) (string, error)
	GetRule(ctx context.Context, id string) (*checkmkclient.Rule, error)
	UpdateRule(ctx context.Context, id, etag, ruleset string, value map[string]interface{}) error
	DeleteRule(ctx context.Context, id string) error
}

// Source says how an EffectiveParameters value was obtained.
type Source string

const (
	SourceServiceDiscovery Source = "service_discovery"
	SourceRuleEval         Source = "rule_eval"
	SourceNotFound         Source = "not_found"
)

// EffectiveParameters is the result of a read-path resolution.
type EffectiveParameters struct {
	Host        string                 `json:"host"`
	Service     string                 `json:"service"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Source      Source                 `json:"source"`
	CheckPlugin string                 `json:"check_plugin,omitempty"`
	RuleCount   int                    `json:"rule_count"`
	Ruleset     string                 `json:"ruleset,omitempty"`
	Warnings    []string               `json:"warnings,omitempty"`
}

// RuleRef identifies a rule the write path created or updated.
type RuleRef struct {
	RuleID  string `json:"rule_id"`
	Ruleset string `json:"ruleset"`
	Folder  string `json:"folder"`
}

// ValidationIssuesError carries handler validation errors out of the write
// path.
type ValidationIssuesError struct {
	Issues []handlers.Issue
}

// Error implements the error interface.
func (e *ValidationIssuesError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		if i.Severity == handlers.SeverityError {
			msgs = append(msgs, i.Path+": "+i.Message)
		}
	}
	return "parameter validation failed: " + strings.Join(msgs, "; ")
}

// Engine is the parameter engine.
type Engine struct {
	client   CheckmkAPI
	registry *handlers.Registry
	policies []handlers.Policy
}

// NewEngine constructs an Engine.
func NewEngine(client CheckmkAPI, registry *handlers.Registry, policies []handlers.Policy) *Engine {
	return &Engine{client: client, registry: registry, policies: policies}
}

// Registry exposes the handler registry for the handler-introspection tools.
func (e *Engine) Registry() *handlers.Registry { return e.registry }

// RulesetInfo fetches a ruleset's valuespec description.
func (e *Engine) RulesetInfo(ctx context.Context, ruleset string) (*checkmkclient.RulesetInfo, error) {
	return e.client.GetRulesetInfo(ctx, ruleset)
}

// GetEffectiveParameters resolves the parameters Checkmk applies to one
// (host, service). Service discovery is authoritative; rule evaluation is
// the fallback and is flagged with a warning so operators know the result
// was computed client-side.
func (e *Engine) GetEffectiveParameters(ctx context.Context, host, service string) (*EffectiveParameters, error) {
	discovered, err := e.client.ServiceDiscovery(ctx, host)
	if err == nil {
		for _, d := range discovered {
			if d.Description == service {
				return &EffectiveParameters{
					Host:        host,
					Service:     service,
					Parameters:  d.Parameters,
					Source:      SourceServiceDiscovery,
					CheckPlugin: d.CheckPlugin,
				}, nil
			}
		}
	} else {
		logging.DebugCtx(ctx, "ParameterEngine", "service discovery unavailable for %s: %v", host, err)
	}

	return e.evaluateRules(ctx, host, service)
}

func (e *Engine) evaluateRules(ctx context.Context, host, service string) (*EffectiveParameters, error) {
	result := &EffectiveParameters{
		Host:    host,
		Service: service,
		Source:  SourceNotFound,
		Warnings: []string{
			"computed by client-side rule evaluation; service discovery was unavailable or did not list this service",
		},
	}

	ruleset, err := e.ResolveRuleset(ctx, service, "")
	if err != nil || ruleset == "" {
		e.fillHandlerDefaults(result, service, ruleset)
		return result, nil
	}
	result.Ruleset = ruleset

	rules, err := e.client.ListRulesByRuleset(ctx, ruleset)
	if err != nil {
		return nil, err
	}

	hostFolder := "/"
	if h, err := e.client.GetHost(ctx, host, false); err == nil {
		hostFolder = h.FolderPath
	} else {
		result.Warnings = append(result.Warnings, "host folder unknown, assuming root for precedence")
	}

	matching := make([]checkmkclient.Rule, 0, len(rules))
	for _, r := range rules {
		if ruleMatches(r, host, service) && FolderDistance(hostFolder, r.FolderPath) < maxDistance {
			matching = append(matching, r)
		}
	}
	result.RuleCount = len(matching)
	if len(matching) == 0 {
		e.fillHandlerDefaults(result, service, ruleset)
		return result, nil
	}

	folders := make([]string, len(matching))
	for i, r := range matching {
		folders[i] = r.FolderPath
	}
	best := matching[SortByFolderPrecedence(hostFolder, folders)[0]]

	result.Source = SourceRuleEval
	result.Parameters = best.Value
	return result, nil
}

func (e *Engine) fillHandlerDefaults(result *EffectiveParameters, service, ruleset string) {
	if match := e.registry.Select(service, ruleset); match != nil {
		result.Parameters = match.Handler.Defaults(service, handlers.Context{})
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no matching rules; showing %s handler defaults", match.Handler.Name()))
	}
}

// ruleMatches reports whether a rule's conditions select (host, service).
// An empty condition list matches everything; entries are tried as exact
// strings, shell globs, then regexes.
func ruleMatches(r checkmkclient.Rule, host, service string) bool {
	return patternListMatches(r.Conditions.HostName, host) &&
		patternListMatches(r.Conditions.ServiceDesc, service)
}

func patternListMatches(patterns []string, value string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if p == value {
			return true
		}
		if ok, err := path.Match(p, value); err == nil && ok {
			return true
		}
		if re, err := regexp.Compile(p); err == nil && re.MatchString(value) {
			return true
		}
	}
	return false
}

// ResolveRuleset determines which ruleset governs a service: explicit caller
// choice first, then the static hint table, then the handler registry's
// default, then dynamic discovery against Checkmk.
func (e *Engine) ResolveRuleset(ctx context.Context, service, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if hinted := staticRulesetFor(service); hinted != "" {
		return hinted, nil
	}
	if match := e.registry.Select(service, ""); match != nil {
		if rs := match.Handler.DefaultRuleset(); rs != "" {
			return rs, nil
		}
	}
	discovered, err := e.client.DiscoverRuleset(ctx, service)
	if err != nil {
		return "", err
	}
	return discovered, nil
}

// SetParams is the input to SetServiceParameters.
type SetParams struct {
	Host       string
	Service    string
	Ruleset    string // optional; resolved when empty
	Folder     string // optional; "/" triggers host-folder auto-placement
	Parameters map[string]interface{}
	Context    handlers.Context
}

// SetServiceParameters creates a parameter rule for (host, service). When
// the caller passes the root folder and names a host, the rule is placed in
// the host's actual folder so it takes host-level precedence.
func (e *Engine) SetServiceParameters(ctx context.Context, p SetParams) (*RuleRef, []string, error) {
	ruleset, err := e.ResolveRuleset(ctx, p.Service, p.Ruleset)
	if err != nil {
		return nil, nil, err
	}
	if ruleset == "" {
		return nil, nil, fmt.Errorf("params: no ruleset found for service %q", p.Service)
	}

	var warnings []string

	folder := NormalizeFolder(p.Folder)
	if IsRootFolder(folder) && p.Host != "" {
		host, err := e.client.GetHost(ctx, p.Host, false)
		if err != nil {
			return nil, nil, err
		}
		if !IsRootFolder(host.FolderPath) {
			folder = NormalizeFolder(host.FolderPath)
			warnings = append(warnings, fmt.Sprintf("rule placed in host folder %s for host-level precedence", folder))
		}
	}

	values, normWarnings, err := e.prepareValues(ctx, p.Service, ruleset, p.Parameters, handlers.PolicyContext{
		IncludeTrending: p.Context.IncludeTrending,
	})
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, normWarnings...)

	id, err := e.client.CreateRule(ctx, checkmkclient.CreateRuleParams{
		Ruleset:    ruleset,
		FolderPath: folder,
		Value:      values,
		Conditions: checkmkclient.RuleConditions{
			HostName:    conditionList(p.Host),
			ServiceDesc: conditionList(p.Service),
		},
	})

	logging.Audit(logging.AuditEvent{
		Action:    "set_service_parameters",
		Outcome:   auditOutcome(err),
		RequestID: requestid.FromContext(ctx),
		Target:    p.Host + "/" + p.Service,
		Details:   "ruleset=" + ruleset + " folder=" + folder,
		Error:     errString(err),
	})
	if err != nil {
		return nil, nil, err
	}

	return &RuleRef{RuleID: id, Ruleset: ruleset, Folder: folder}, warnings, nil
}

// prepareValues runs caller parameters through handler normalization, the
// policy chain, handler validation, and (best-effort) valuespec validation.
func (e *Engine) prepareValues(ctx context.Context, service, ruleset string, parameters map[string]interface{}, pctx handlers.PolicyContext) (map[string]interface{}, []string, error) {
	values := parameters
	var warnings []string

	if match := e.registry.Select(service, ruleset); match != nil {
		normalized, normWarnings := match.Handler.Normalize(values)
		values = normalized
		warnings = append(warnings, normWarnings...)

		values = handlers.ApplyPolicies(e.policies, values, pctx)

		issues := match.Handler.Validate(values)
		if handlers.HasErrors(issues) {
			return nil, nil, &ValidationIssuesError{Issues: issues}
		}
		for _, i := range issues {
			warnings = append(warnings, i.Path+": "+i.Message)
		}
	} else {
		values = handlers.ApplyPolicies(e.policies, values, pctx)
	}

	warnings = append(warnings, e.validateAgainstValuespec(ctx, ruleset, values)...)
	return values, warnings, nil
}

// validateAgainstValuespec compares parameter keys with the ruleset's
// valuespec when Checkmk exposes one as a dictionary of named elements.
// Mismatches surface as warnings only: valuespecs vary across Checkmk
// versions and a false rejection would be worse than a noisy create.
func (e *Engine) validateAgainstValuespec(ctx context.Context, ruleset string, values map[string]interface{}) []string {
	info, err := e.client.GetRulesetInfo(ctx, ruleset)
	if err != nil || info == nil || len(info.ValueSpec) == 0 {
		return nil
	}
	elements, ok := info.ValueSpec["elements"].([]interface{})
	if !ok {
		return nil
	}

	known := make(map[string]bool, len(elements))
	for _, el := range elements {
		m, isMap := el.(map[string]interface{})
		if !isMap {
			continue
		}
		if name, ok := m["name"].(string); ok {
			known[name] = true
		}
	}
	if len(known) == 0 {
		return nil
	}

	var warnings []string
	for key := range values {
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("parameter %q is not declared by the %s valuespec", key, ruleset))
		}
	}
	return warnings
}

// UpdateRule merges new parameter values into an existing rule under etag
// optimistic concurrency. A 412 conflict triggers one refetch-and-retry;
// a second conflict is surfaced to the caller.
func (e *Engine) UpdateRule(ctx context.Context, ruleID string, parameters map[string]interface{}) (*RuleRef, []string, error) {
	const conflictRetries = 1

	var (
		ref      *RuleRef
		warnings []string
		lastErr  error
	)
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		rule, err := e.client.GetRule(ctx, ruleID)
		if err != nil {
			return nil, nil, err
		}

		merged := make(map[string]interface{}, len(rule.Value)+len(parameters))
		for k, v := range rule.Value {
			merged[k] = v
		}
		for k, v := range parameters {
			merged[k] = v
		}

		service := firstOrEmpty(rule.Conditions.ServiceDesc)
		values, prepWarnings, err := e.prepareValues(ctx, service, rule.Ruleset, merged, handlers.PolicyContext{
			ExistingValue: rule.Value,
		})
		if err != nil {
			return nil, nil, err
		}

		lastErr = e.client.UpdateRule(ctx, ruleID, rule.Etag, rule.Ruleset, values)
		if lastErr == nil {
			ref = &RuleRef{RuleID: ruleID, Ruleset: rule.Ruleset, Folder: rule.FolderPath}
			warnings = prepWarnings
			break
		}
		if _, conflict := lastErr.(*checkmkclient.ConflictError); !conflict {
			break
		}
		logging.WarnCtx(ctx, "ParameterEngine", "etag conflict updating rule %s, refetching", ruleID)
	}

	logging.Audit(logging.AuditEvent{
		Action:    "update_parameter_rule",
		Outcome:   auditOutcome(lastErr),
		RequestID: requestid.FromContext(ctx),
		Target:    ruleID,
		Error:     errString(lastErr),
	})
	if lastErr != nil {
		return nil, nil, lastErr
	}
	return ref, warnings, nil
}

func conditionList(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func auditOutcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func errString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
