package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// businessTools builds the business category over Checkmk BI aggregations.
// Registered only when the business_intelligence feature is enabled.
func businessTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryBusiness,
			Tool: mcp.NewTool("get_business_status_summary",
				mcp.WithDescription("Summarize all business-intelligence aggregations by state."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				summary, err := d.BI.GetStatusSummary(ctx)
				if err != nil {
					return nil, nil, err
				}
				return summary, nil, nil
			},
		},
		{
			Category: CategoryBusiness,
			Tool: mcp.NewTool("get_critical_business_services",
				mcp.WithDescription("List business-intelligence aggregations currently in a non-OK state."),
			),
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, []string, error) {
				critical, err := d.BI.GetCritical(ctx)
				if err != nil {
					return nil, nil, err
				}
				return map[string]interface{}{"aggregations": critical, "count": len(critical)}, nil, nil
			},
		},
	}
}
