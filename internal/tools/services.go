package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/checkmkclient"
)

// serviceTools builds the service category: cross-host listing, problem
// acknowledgment, and downtime scheduling.
func serviceTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryService,
			Tool: mcp.NewTool("list_all_services",
				mcp.WithDescription("List services across all hosts with their current states. Use for fleet-wide overviews or to find problem services."),
				mcp.WithString("host_filter", mcp.Description("Restrict to one host name")),
				mcp.WithString("state_filter",
					mcp.Description("Restrict to one state"),
					mcp.Enum("OK", "WARN", "CRIT", "UNKNOWN"),
				),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				hostFilter, err := stringArg(args, "host_filter", false)
				if err != nil {
					return nil, nil, err
				}
				stateName, err := stringArg(args, "state_filter", false)
				if err != nil {
					return nil, nil, err
				}

				p := checkmkclient.ListAllServicesParams{HostFilter: hostFilter}
				if stateName != "" {
					state, ok := parseStateName(stateName)
					if !ok {
						return nil, nil, api.NewArgumentError("state_filter", "must be one of OK, WARN, CRIT, UNKNOWN")
					}
					p.StateFilter = &state
				}

				list, err := d.Services.ListAll(ctx, p)
				if err != nil {
					return nil, nil, err
				}
				return list, nil, nil
			},
		},
		{
			Category: CategoryService,
			Tool: mcp.NewTool("acknowledge_service_problem",
				mcp.WithDescription("Acknowledge a service problem so it stops alerting. Use after someone takes ownership of an issue."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithString("comment", mcp.Description("Why the problem is acknowledged")),
				mcp.WithBoolean("sticky", mcp.Description("Keep the acknowledgment across state changes")),
				mcp.WithBoolean("persistent", mcp.Description("Keep the comment after recovery")),
				mcp.WithBoolean("notify", mcp.Description("Send a notification about the acknowledgment")),
				mcp.WithString("expires_at", mcp.Description("RFC 3339 expiry for the acknowledgment")),
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
				comment, err := stringArg(args, "comment", false)
				if err != nil {
					return nil, nil, err
				}
				sticky, err := boolArg(args, "sticky")
				if err != nil {
					return nil, nil, err
				}
				persistent, err := boolArg(args, "persistent")
				if err != nil {
					return nil, nil, err
				}
				notify, err := boolArg(args, "notify")
				if err != nil {
					return nil, nil, err
				}
				expiresAt, err := timeArg(args, "expires_at", false)
				if err != nil {
					return nil, nil, err
				}
				if comment == "" {
					comment = "acknowledged via MCP"
				}

				err = d.Services.Acknowledge(ctx, checkmkclient.AcknowledgeParams{
					HostName: host, Description: service, Comment: comment,
					Sticky: sticky, Persistent: persistent, Notify: notify, ExpiresAt: expiresAt,
				})
				if err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"host_name": host, "service": service, "acknowledged": true}, nil, nil
			},
		},
		{
			Category: CategoryService,
			Tool: mcp.NewTool("create_service_downtime",
				mcp.WithDescription("Schedule a downtime window for a service, suppressing alerts during planned work."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithString("start", mcp.Description("RFC 3339 start; defaults to now")),
				mcp.WithString("end", mcp.Description("RFC 3339 end; defaults to start + duration")),
				mcp.WithNumber("duration_minutes", mcp.Description("Window length when no end is given; defaults to 60")),
				mcp.WithString("comment", mcp.Description("Why the downtime is scheduled")),
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
				startArg, err := timeArg(args, "start", false)
				if err != nil {
					return nil, nil, err
				}
				endArg, err := timeArg(args, "end", false)
				if err != nil {
					return nil, nil, err
				}
				durationMin, err := intArg(args, "duration_minutes", 60)
				if err != nil {
					return nil, nil, err
				}
				comment, err := stringArg(args, "comment", false)
				if err != nil {
					return nil, nil, err
				}
				if comment == "" {
					comment = "downtime via MCP"
				}

				start := time.Now()
				if startArg != nil {
					start = *startArg
				}
				end := start.Add(time.Duration(durationMin) * time.Minute)
				if endArg != nil {
					end = *endArg
				}
				if !end.After(start) {
					return nil, nil, api.NewArgumentError("end", "must be after start")
				}

				err = d.Services.CreateDowntime(ctx, checkmkclient.DowntimeParams{
					HostName: host, Description: service, Comment: comment,
					Start: start, End: end,
				})
				if err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{
					"host_name": host, "service": service,
					"start": start.UTC().Format(time.RFC3339), "end": end.UTC().Format(time.RFC3339),
				}, nil, nil
			},
		},
	}
}

func parseStateName(name string) (checkmkclient.ServiceState, bool) {
	switch name {
	case "OK":
		return checkmkclient.StateOK, true
	case "WARN":
		return checkmkclient.StateWarn, true
	case "CRIT":
		return checkmkclient.StateCrit, true
	case "UNKNOWN":
		return checkmkclient.StateUnknown, true
	default:
		return 0, false
	}
}
