package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/checkmkclient"
)

// advancedTools builds the advanced category: system info, host streaming,
// bulk creation, server metrics, and cache control.
func advancedTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryAdvanced,
			Tool: mcp.NewTool("get_system_info",
				mcp.WithDescription("Get the Checkmk server version and edition."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				info, err := d.Advanced.GetSystemInfo(ctx)
				if err != nil {
					return nil, nil, err
				}
				return info, nil, nil
			},
		},
		{
			Category: CategoryAdvanced,
			Tool: mcp.NewTool("stream_hosts",
				mcp.WithDescription("Traverse the host inventory in explicit batches. Use for large installations where one flat listing is unwieldy."),
				mcp.WithString("folder", mcp.Description("Restrict to one folder path")),
				mcp.WithNumber("batch_size", mcp.Description("Hosts per batch; defaults to the configured streaming batch size")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				folder, err := stringArg(args, "folder", false)
				if err != nil {
					return nil, nil, err
				}
				batchSize, err := intArg(args, "batch_size", 0)
				if err != nil {
					return nil, nil, err
				}
				stream, err := d.Advanced.StreamHosts(ctx, folder, batchSize)
				if err != nil {
					return nil, nil, err
				}
				return stream, nil, nil
			},
		},
		{
			Category: CategoryAdvanced,
			Tool: mcp.NewTool("batch_create_hosts",
				mcp.WithDescription("Create many hosts in one call with bounded concurrency and per-item retry. One host failing never cancels the others."),
				mcp.WithArray("hosts", mcp.Required(),
					mcp.Description("Hosts to create: [{host_name, folder, attributes?}, ...]")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				items, err := listArg(args, "hosts", true)
				if err != nil {
					return nil, nil, err
				}
				if len(items) == 0 {
					return nil, nil, api.NewArgumentError("hosts", "must not be empty")
				}

				hosts := make([]checkmkclient.CreateHostParams, 0, len(items))
				for i, item := range items {
					entry, ok := item.(map[string]interface{})
					if !ok {
						return nil, nil, api.NewArgumentError(fmt.Sprintf("hosts[%d]", i), "expected object")
					}
					name, _ := entry["host_name"].(string)
					if name == "" {
						return nil, nil, api.NewArgumentError(fmt.Sprintf("hosts[%d].host_name", i), "required")
					}
					folder, _ := entry["folder"].(string)
					if folder == "" {
						folder = "/"
					}
					attributes, _ := entry["attributes"].(map[string]interface{})
					hosts = append(hosts, checkmkclient.CreateHostParams{
						Name: name, FolderPath: folder, Attributes: attributes,
					})
				}

				result, err := d.Advanced.BatchCreateHosts(ctx, hosts)
				if err != nil {
					return nil, nil, err
				}
				return result, nil, nil
			},
		},
		{
			Category: CategoryAdvanced,
			Tool: mcp.NewTool("get_server_metrics",
				mcp.WithDescription("Get this server's own observability snapshot: cache statistics and circuit-breaker states."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				return d.Advanced.GetServerMetrics(ctx), nil, nil
			},
		},
		{
			Category: CategoryAdvanced,
			Tool: mcp.NewTool("clear_cache",
				mcp.WithDescription("Drop cached reads so the next call refetches from Checkmk. Optionally scoped by a glob pattern."),
				mcp.WithString("pattern", mcp.Description("Key glob, e.g. hosts:*; everything when omitted")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				pattern, err := stringArg(args, "pattern", false)
				if err != nil {
					return nil, nil, err
				}
				removed := d.Advanced.ClearCache(pattern)
				return map[string]interface{}{"removed": removed}, nil, nil
			},
		},
	}
}
