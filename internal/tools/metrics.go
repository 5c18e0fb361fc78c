package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/checkmkclient"
)

// metricTools builds the metrics category. Registered only when the
// metrics_api feature is enabled.
func metricTools(d Deps) []Definition {
	return []Definition{
		{
			Category: CategoryMetrics,
			Tool: mcp.NewTool("get_service_metrics",
				mcp.WithDescription("Get a reduced metric time series for a service over a symbolic range like 1h or 24h."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithString("metric", mcp.Required(), mcp.Description("Metric id, e.g. load1 or temp")),
				mcp.WithString("time_range",
					mcp.Description("Range ending now; defaults to 24h"),
					mcp.Enum("1h", "6h", "24h", "7d", "30d"),
				),
				mcp.WithString("reduce",
					mcp.Description("Aggregation per point; defaults to average"),
					mcp.Enum("average", "max", "min"),
				),
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
				metric, err := stringArg(args, "metric", true)
				if err != nil {
					return nil, nil, err
				}
				rangeName, err := stringArg(args, "time_range", false)
				if err != nil {
					return nil, nil, err
				}
				if rangeName == "" {
					rangeName = "24h"
				}
				reduce, err := reduceArg(args)
				if err != nil {
					return nil, nil, err
				}

				result, err := d.Metrics.GetServiceMetrics(ctx, host, service, metric, rangeName, reduce)
				if err != nil {
					return nil, nil, err
				}
				warnings := result.Warnings
				result.Warnings = nil
				return result, warnings, nil
			},
		},
		{
			Category: CategoryMetrics,
			Tool: mcp.NewTool("get_metric_history",
				mcp.WithDescription("Get a reduced metric time series for explicit Unix start/end timestamps."),
				mcp.WithString("host_name", mcp.Required(), mcp.Description("Host name")),
				mcp.WithString("service", mcp.Required(), mcp.Description("Service description")),
				mcp.WithString("metric", mcp.Required(), mcp.Description("Metric id")),
				mcp.WithNumber("start", mcp.Required(), mcp.Description("Unix timestamp of range start")),
				mcp.WithNumber("end", mcp.Required(), mcp.Description("Unix timestamp of range end")),
				mcp.WithString("reduce",
					mcp.Description("Aggregation per point; defaults to average"),
					mcp.Enum("average", "max", "min"),
				),
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
				metric, err := stringArg(args, "metric", true)
				if err != nil {
					return nil, nil, err
				}
				start, err := intArg(args, "start", 0)
				if err != nil {
					return nil, nil, err
				}
				end, err := intArg(args, "end", 0)
				if err != nil {
					return nil, nil, err
				}
				if start <= 0 || end <= 0 || end <= start {
					return nil, nil, api.NewArgumentError("start", "start and end must be Unix timestamps with end after start")
				}
				reduce, err := reduceArg(args)
				if err != nil {
					return nil, nil, err
				}

				history, err := d.Metrics.GetHistory(ctx, host, service, metric, reduce, int64(start), int64(end))
				if err != nil {
					return nil, nil, err
				}
				return history, nil, nil
			},
		},
	}
}

func reduceArg(args map[string]interface{}) (checkmkclient.Reduce, error) {
	name, err := stringArg(args, "reduce", false)
	if err != nil {
		return "", err
	}
	switch name {
	case "":
		return checkmkclient.ReduceAverage, nil
	case "average":
		return checkmkclient.ReduceAverage, nil
	case "max":
		return checkmkclient.ReduceMax, nil
	case "min":
		return checkmkclient.ReduceMin, nil
	default:
		return "", api.NewArgumentError("reduce", "must be one of average, max, min")
	}
}
