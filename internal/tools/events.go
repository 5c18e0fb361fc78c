package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// eventTools builds the events category over the Event Console. Registered
// only when the event_console feature is enabled.
func eventTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryEvents,
			Tool: mcp.NewTool("list_service_events",
				mcp.WithDescription("List Event Console entries for one (host, service). An empty list means no events, not an error."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithNumber("limit", mcp.Description("Maximum events to return")),
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
				limit, err := intArg(args, "limit", 0)
				if err != nil {
					return nil, nil, err
				}
				list, err := d.Events.ListServiceEvents(ctx, host, service, limit)
				if err != nil {
					return nil, nil, err
				}
				return list, nil, nil
			},
		},
		{
			Category: CategoryEvents,
			Tool: mcp.NewTool("list_host_events",
				mcp.WithDescription("List Event Console entries for one host."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithNumber("limit", mcp.Description("Maximum events to return")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				host, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				limit, err := intArg(args, "limit", 0)
				if err != nil {
					return nil, nil, err
				}
				list, err := d.Events.ListHostEvents(ctx, host, limit)
				if err != nil {
					return nil, nil, err
				}
				return list, nil, nil
			},
		},
		{
			Category: CategoryEvents,
			Tool: mcp.NewTool("get_recent_critical_events",
				mcp.WithDescription("List recent critical events newest-first across the whole installation."),
				mcp.WithNumber("limit", mcp.Description("Maximum events to return; defaults to 20")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				limit, err := intArg(args, "limit", 20)
				if err != nil {
					return nil, nil, err
				}
				list, err := d.Events.GetRecentCritical(ctx, limit)
				if err != nil {
					return nil, nil, err
				}
				return list, nil, nil
			},
		},
		{
			Category: CategoryEvents,
			Tool: mcp.NewTool("acknowledge_event",
				mcp.WithDescription("Acknowledge one Event Console entry."),
				mcp.WithString("event_id", mcp.Required(), mcp.Description("Event id")),
				mcp.WithString("comment", mcp.Description("Why the event is acknowledged")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				eventID, err := stringArg(args, "event_id", true)
				if err != nil {
					return nil, nil, err
				}
				comment, err := stringArg(args, "comment", false)
				if err != nil {
					return nil, nil, err
				}
				if comment == "" {
					comment = "acknowledged via MCP"
				}
				if err := d.Events.Acknowledge(ctx, eventID, comment); err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"event_id": eventID, "acknowledged": true}, nil, nil
			},
		},
		{
			Category: CategoryEvents,
			Tool: mcp.NewTool("search_events",
				mcp.WithDescription("Search Event Console entries by free-form text."),
				mcp.WithString("query", mcp.Required(), mcp.Description("Text to search event messages for")),
				mcp.WithNumber("limit", mcp.Description("Maximum events to return")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				query, err := stringArg(args, "query", true)
				if err != nil {
					return nil, nil, err
				}
				limit, err := intArg(args, "limit", 0)
				if err != nil {
					return nil, nil, err
				}
				list, err := d.Events.Search(ctx, query, limit)
				if err != nil {
					return nil, nil, err
				}
				return list, nil, nil
			},
		},
	}
}
