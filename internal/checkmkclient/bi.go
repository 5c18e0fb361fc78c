package checkmkclient

import (
	"context"
	"encoding/json"
)

const familyBI = "bi"

// ListAggregations lists all Business Intelligence aggregations.
func (c *Client) ListAggregations(ctx context.Context) ([]BIAggregation, error) {
	raw, _, err := c.do(ctx, familyBI, "GET", "/domain-types/bi_aggregation/collections/all", nil,
		WithFallback(func() (json.RawMessage, string, error) {
			return json.RawMessage(`{"value":[]}`), "", nil
		}))
	if err != nil {
		return nil, err
	}
	return decodeAggregations(raw)
}

// CriticalAggregations lists only the aggregations currently in a
// non-OK state.
func (c *Client) CriticalAggregations(ctx context.Context) ([]BIAggregation, error) {
	all, err := c.ListAggregations(ctx)
	if err != nil {
		return nil, err
	}
	critical := make([]BIAggregation, 0, len(all))
	for _, a := range all {
		if a.State != StateOK {
			critical = append(critical, a)
		}
	}
	return critical, nil
}

func decodeAggregations(raw json.RawMessage) ([]BIAggregation, error) {
	var env struct {
		Value []struct {
			Title      string                 `json:"title"`
			Extensions map[string]interface{} `json:"extensions"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding BI aggregations: " + err.Error()}
	}
	out := make([]BIAggregation, 0, len(env.Value))
	for _, v := range env.Value {
		a := BIAggregation{Name: v.Title}
		if state, ok := v.Extensions["state"].(float64); ok {
			a.State = ServiceState(int(state))
		}
		out = append(out, a)
	}
	return out, nil
}
