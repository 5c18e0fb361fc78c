package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"checkmkmcp/internal/checkmkclient"
)

// hostTools builds the host category: CRUD over the host configuration plus
// the per-host service listing.
func hostTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryHost,
			Tool: mcp.NewTool("list_hosts",
				mcp.WithDescription("List configured hosts. Use to browse or search the host inventory, optionally scoped to one folder."),
				mcp.WithString("search", mcp.Description("Substring filter on host names")),
				mcp.WithString("folder", mcp.Description("Restrict to one folder path, e.g. /network/")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of hosts to return")),
				mcp.WithNumber("offset", mcp.Description("Number of hosts to skip, for paging")),
				mcp.WithBoolean("effective_attributes", mcp.Description("Include folder-inherited effective attributes")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				search, err := stringArg(args, "search", false)
				if err != nil {
					return nil, nil, err
				}
				folder, err := stringArg(args, "folder", false)
				if err != nil {
					return nil, nil, err
				}
				limit, err := intArg(args, "limit", 0)
				if err != nil {
					return nil, nil, err
				}
				offset, err := intArg(args, "offset", 0)
				if err != nil {
					return nil, nil, err
				}
				effective, err := boolArg(args, "effective_attributes")
				if err != nil {
					return nil, nil, err
				}

				list, err := d.Hosts.List(ctx, checkmkclient.ListHostsParams{
					Search: search, Folder: folder, Limit: limit, Offset: offset,
					EffectiveAttributes: effective,
				})
				if err != nil {
					return nil, nil, err
				}
				return list, nil, nil
			},
		},
		{
			Category: CategoryHost,
			Tool: mcp.NewTool("create_host",
				mcp.WithDescription("Create a host in a folder. Use when onboarding a new machine into monitoring."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Unique host name")),
				mcp.WithString("folder", mcp.Required(), mcp.Description("Target folder path, e.g. /network/")),
				mcp.WithObject("attributes", mcp.Description("Host attributes such as ipaddress or alias")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				folder, err := stringArg(args, "folder", true)
				if err != nil {
					return nil, nil, err
				}
				attributes, err := mapArg(args, "attributes", false)
				if err != nil {
					return nil, nil, err
				}

				host, err := d.Hosts.Create(ctx, checkmkclient.CreateHostParams{
					Name: name, FolderPath: folder, Attributes: attributes,
				})
				if err != nil {
					return nil, nil, err
				}
				return host, nil, nil
			},
		},
		{
			Category: CategoryHost,
			Tool: mcp.NewTool("get_host",
				mcp.WithDescription("Get one host's configuration, optionally with folder-inherited effective attributes."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithBoolean("effective_attributes", mcp.Description("Include effective attributes")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				effective, err := boolArg(args, "effective_attributes")
				if err != nil {
					return nil, nil, err
				}

				host, err := d.Hosts.Get(ctx, name, effective)
				if err != nil {
					return nil, nil, err
				}
				return host, nil, nil
			},
		},
		{
			Category: CategoryHost,
			Tool: mcp.NewTool("update_host",
				mcp.WithDescription("Update a host's attributes."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithObject("attributes", mcp.Required(), mcp.Description("Attributes to merge into the host")),
				mcp.WithString("etag", mcp.Description("Etag from a prior read, for optimistic concurrency")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				attributes, err := mapArg(args, "attributes", true)
				if err != nil {
					return nil, nil, err
				}
				etag, err := stringArg(args, "etag", false)
				if err != nil {
					return nil, nil, err
				}

				if err := d.Hosts.Update(ctx, name, etag, attributes); err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"host_name": name, "updated": true}, nil, nil
			},
		},
		{
			Category: CategoryHost,
			Tool: mcp.NewTool("delete_host",
				mcp.WithDescription("Delete a host from the monitoring configuration."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				if err := d.Hosts.Delete(ctx, name); err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"host_name": name, "deleted": true}, nil, nil
			},
		},
		{
			Category: CategoryHost,
			Tool: mcp.NewTool("list_host_services",
				mcp.WithDescription("List the monitored services of one host with their current states."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				svcs, err := d.Hosts.ListServices(ctx, name)
				if err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"host_name": name, "services": svcs, "count": len(svcs)}, nil, nil
			},
		},
	}
}
