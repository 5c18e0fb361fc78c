package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// monitoringTools builds the monitoring category: dashboards and health
// analysis.
func monitoringTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryMonitoring,
			Tool: mcp.NewTool("get_health_dashboard",
				mcp.WithDescription("Get the aggregate health dashboard: service counts by state, acknowledgment and downtime totals, an overall grade, and problem categories. Use as the first stop for 'how is everything doing'."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				dashboard, err := d.Status.GetDashboard(ctx)
				if err != nil {
					return nil, nil, err
				}
				return dashboard, nil, nil
			},
		},
		{
			Category: CategoryMonitoring,
			Tool: mcp.NewTool("get_critical_problems",
				mcp.WithDescription("List unhandled critical services: CRIT state, not acknowledged, not in downtime. Use to find what needs attention right now."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				problems, err := d.Status.GetCriticalProblems(ctx)
				if err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"problems": problems, "count": len(problems)}, nil, nil
			},
		},
		{
			Category: CategoryMonitoring,
			Tool: mcp.NewTool("analyze_host_health",
				mcp.WithDescription("Analyze one host's health: per-state service counts, a grade, and its current problems worst-first."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				name, err := stringArg(args, "host_name", true)
				if err != nil {
					return nil, nil, err
				}
				health, err := d.Status.AnalyzeHostHealth(ctx, name)
				if err != nil {
					return nil, nil, err
				}
				return health, nil, nil
			},
		},
	}
}
