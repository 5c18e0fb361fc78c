package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/params"
	"checkmkmcp/internal/params/handlers"
)

// parameterTools builds the parameters category: effective-parameter
// resolution, rule writes, and the handler-introspection surface.
func parameterTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("get_effective_parameters",
				mcp.WithDescription("Get the parameters Checkmk actually applies to a (host, service), preferring Checkmk's own service-discovery computation and falling back to rule evaluation."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				host, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				service, err := stringArg(args, "service", true)
				if err != nil {
					return nil, nil, err
				}

				result, err := d.Params.GetEffectiveParameters(ctx, host, service)
				if err != nil {
					return nil, nil, err
				}
				warnings := result.Warnings
				result.Warnings = nil
				return result, warnings, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("set_service_parameters",
				mcp.WithDescription("Create a parameter rule for a (host, service). With folder '/' and a host name, the rule is auto-placed in the host's folder for host-level precedence."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithObject("parameters", mcp.Required(), mcp.Description("Parameter values, e.g. {\"levels\": [75, 85]}")),
				mcp.WithString("folder", mcp.Description("Target folder; defaults to '/' with host auto-placement")),
				mcp.WithString("ruleset", mcp.Description("Explicit ruleset name; resolved automatically when omitted")),
				mcp.WithObject("context", mcp.Description("Environment hints: environment, criticality, hardware_type, location, include_trending")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				host, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				service, err := stringArg(args, "service", true)
				if err != nil {
					return nil, nil, err
				}
				parameters, err := mapArg(args, "parameters", true)
				if err != nil {
					return nil, nil, err
				}
				folder, err := stringArg(args, "folder", false)
				if err != nil {
					return nil, nil, err
				}
				ruleset, err := stringArg(args, "ruleset", false)
				if err != nil {
					return nil, nil, err
				}
				hctx, err := handlerContextArg(args)
				if err != nil {
					return nil, nil, err
				}

				ref, warnings, err := d.Params.SetServiceParameters(ctx, params.SetParams{
					Host: host, Service: service, Ruleset: ruleset, Folder: folder,
					Parameters: parameters, Context: hctx,
				})
				if err != nil {
					return nil, nil, err
				}
				return ref, warnings, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("discover_service_ruleset",
				mcp.WithDescription("Find which parameter ruleset governs a service, via static hints, handlers, or Checkmk discovery."),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				service, err := stringArg(args, "service", true)
				if err != nil {
					return nil, nil, err
				}
				ruleset, err := d.Params.ResolveRuleset(ctx, service, "")
				if err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"service": service, "ruleset": ruleset}, nil, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("get_parameter_schema",
				mcp.WithDescription("Get a ruleset's value schema (valuespec) as Checkmk describes it."),
				mcp.WithString("ruleset", mcp.Required(), mcp.Description("Ruleset name, e.g. checkgroup_parameters:temperature")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				ruleset, err := stringArg(args, "ruleset", true)
				if err != nil {
					return nil, nil, err
				}
				info, err := d.Params.RulesetInfo(ctx, ruleset)
				if err != nil {
					return nil, nil, err
				}
				return info, nil, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("validate_service_parameters",
				mcp.WithDescription("Validate parameter values for a service against its specialized handler without writing anything."),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithObject("parameters", mcp.Required(), mcp.Description("Parameter values to validate")),
				mcp.WithString("ruleset", mcp.Description("Ruleset hint for handler selection")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				return validateWithRegistry(d, args, "")
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("update_parameter_rule",
				mcp.WithDescription("Update an existing parameter rule's values under etag optimistic concurrency, merging into the current value."),
				mcp.WithString("rule_id", mcp.Required(), mcp.Description("Rule id")),
				mcp.WithObject("parameters", mcp.Required(), mcp.Description("Values to merge into the rule")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				ruleID, err := stringArg(args, "rule_id", true)
				if err != nil {
					return nil, nil, err
				}
				parameters, err := mapArg(args, "parameters", true)
				if err != nil {
					return nil, nil, err
				}

				ref, warnings, err := d.Params.UpdateRule(ctx, ruleID, parameters)
				if err != nil {
					return nil, nil, err
				}
				return ref, warnings, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("get_service_handler_info",
				mcp.WithDescription("Show which specialized handler a service resolves to and why."),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithString("ruleset", mcp.Description("Ruleset hint for handler selection")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				service, err := stringArg(args, "service", true)
				if err != nil {
					return nil, nil, err
				}
				ruleset, err := stringArg(args, "ruleset", false)
				if err != nil {
					return nil, nil, err
				}

				match := d.Params.Registry().Select(service, ruleset)
				if match == nil {
					return map[string]interface{}{"service": service, "handler": nil}, nil, nil
				}
				return map[string]interface{}{
					"service": service,
					"handler": handlerInfo(match.Handler),
					"matched_by": map[string]bool{
						"ruleset_pattern": match.RulesetMatched,
						"service_pattern": !match.RulesetMatched,
					},
				}, nil, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("get_specialized_defaults",
				mcp.WithDescription("Get a handler's recommended default parameters for a service, adjusted for the given context."),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithObject("context", mcp.Description("Environment hints: environment, criticality, hardware_type, location")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				service, err := stringArg(args, "service", true)
				if err != nil {
					return nil, nil, err
				}
				hctx, err := handlerContextArg(args)
				if err != nil {
					return nil, nil, err
				}

				match := d.Params.Registry().Select(service, "")
				if match == nil {
					return nil, nil, &api.ServiceError{Kind: api.KindNotFound, Message: "no specialized handler matches service " + service}
				}
				return map[string]interface{}{
					"service":  service,
					"handler":  match.Handler.Name(),
					"defaults": match.Handler.Defaults(service, hctx),
				}, nil, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("validate_with_handler",
				mcp.WithDescription("Validate parameter values with one named handler, bypassing automatic handler selection."),
				mcp.WithString("handler", mcp.Required(), mcp.Description("Handler name, e.g. temperature")),
				mcp.WithObject("parameters", mcp.Required(), mcp.Description("Parameter values to validate")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "handler", true)
				if err != nil {
					return nil, nil, err
				}
				return validateWithRegistry(d, args, name)
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("get_parameter_suggestions",
				mcp.WithDescription("Get a handler's optimization suggestions for a service's current parameters."),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithObject("parameters", mcp.Description("Current parameter values; defaults are used when omitted")),
				mcp.WithObject("context", mcp.Description("Environment hints")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				service, err := stringArg(args, "service", true)
				if err != nil {
					return nil, nil, err
				}
				parameters, err := mapArg(args, "parameters", false)
				if err != nil {
					return nil, nil, err
				}
				hctx, err := handlerContextArg(args)
				if err != nil {
					return nil, nil, err
				}

				match := d.Params.Registry().Select(service, "")
				if match == nil {
					return nil, nil, &api.ServiceError{Kind: api.KindNotFound, Message: "no specialized handler matches service " + service}
				}
				if parameters == nil {
					parameters = match.Handler.Defaults(service, hctx)
				}
				suggestions := match.Handler.Suggest(parameters, hctx)
				if suggestions == nil {
					suggestions = []handlers.Suggestion{}
				}
				return map[string]interface{}{
					"service":     service,
					"handler":     match.Handler.Name(),
					"suggestions": suggestions,
				}, nil, nil
			},
		},
		{
			Category: CategoryParameters,
			Tool: mcp.NewTool("list_parameter_handlers",
				mcp.WithDescription("List the registered specialized parameter handlers with their patterns and priorities."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				list := d.Params.Registry().List()
				infos := make([]map[string]interface{}, 0, len(list))
				for _, h := range list {
					infos = append(infos, handlerInfo(h))
				}
				return map[string]interface{}{"handlers": infos, "count": len(infos)}, nil, nil
			},
		},
	}
}

func handlerInfo(h handlers.Handler) map[string]interface{} {
	return map[string]interface{}{
		"name":             h.Name(),
		"priority":         h.Priority(),
		"service_patterns": h.ServicePatterns(),
		"ruleset_patterns": h.RulesetPatterns(),
		"default_ruleset":  h.DefaultRuleset(),
	}
}

// validateWithRegistry runs handler validation for the validate_* tools.
// With handlerName empty the handler is selected from the service and
// ruleset arguments; otherwise it is looked up by name.
func validateWithRegistry(d Deps, args map[string]interface{}, handlerName string) (interface{}, []string, error) {
	parameters, err := mapArg(args, "parameters", true)
	if err != nil {
		return nil, nil, err
	}

	var h handlers.Handler
	if handlerName != "" {
		h = d.Params.Registry().ByName(handlerName)
		if h == nil {
			return nil, nil, &api.ServiceError{Kind: api.KindNotFound, Message: "no handler named " + handlerName}
		}
	} else {
		service, err := stringArg(args, "service", true)
		if err != nil {
			return nil, nil, err
		}
		ruleset, err := stringArg(args, "ruleset", false)
		if err != nil {
			return nil, nil, err
		}
		match := d.Params.Registry().Select(service, ruleset)
		if match == nil {
			return nil, nil, &api.ServiceError{Kind: api.KindNotFound, Message: "no specialized handler matches service " + service}
		}
		h = match.Handler
	}

	normalized, warnings := h.Normalize(parameters)
	issues := h.Validate(normalized)
	if issues == nil {
		issues = []handlers.Issue{}
	}
	return map[string]interface{}{
		"handler":    h.Name(),
		"valid":      !handlers.HasErrors(issues),
		"issues":     issues,
		"normalized": normalized,
	}, warnings, nil
}
