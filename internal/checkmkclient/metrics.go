package checkmkclient

import (
	"context"
	"encoding/json"
	"fmt"
)

const familyMetrics = "metrics"

// Reduce is one of the aggregation functions accepted by get_metric_history.
type Reduce string

const (
	ReduceAverage Reduce = "average"
	ReduceMax     Reduce = "max"
	ReduceMin     Reduce = "min"
)

// GetGraph fetches a rendered-data graph for a service.
func (c *Client) GetGraph(ctx context.Context, hostName, service, graphID string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"host_name":   hostName,
		"service":     service,
		"graph_id":    graphID,
	}
	raw, _, err := c.do(ctx, familyMetrics, "POST", "/domain-types/metric/actions/get/invoke", body)
	return raw, err
}

// GetMetricHistory fetches a reduced time series for one metric.
func (c *Client) GetMetricHistory(ctx context.Context, hostName, service, metric string, reduce Reduce, start, end int64) (*MetricHistory, error) {
	body := map[string]interface{}{
		"host_name": hostName,
		"service":   service,
		"metric_id": metric,
		"reduce":    string(reduce),
		"time_range": map[string]interface{}{
			"start": start,
			"end":   end,
		},
	}
	raw, _, err := c.do(ctx, familyMetrics, "POST", "/domain-types/metric/actions/get_history/invoke", body,
		WithFallback(func() (json.RawMessage, string, error) {
			return json.RawMessage(fmt.Sprintf(`{"metric":%q,"reduce":%q,"points":[]}`, metric, reduce)), "", nil
		}))
	if err != nil {
		return nil, err
	}

	var h MetricHistory
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, &ValidationError{Message: "decoding metric history: " + err.Error()}
	}
	if h.Metric == "" {
		h.Metric = metric
	}
	if h.Reduce == "" {
		h.Reduce = string(reduce)
	}
	return &h, nil
}
