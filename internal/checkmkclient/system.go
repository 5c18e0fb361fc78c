package checkmkclient

import (
	"context"
	"encoding/json"
)

const familySystem = "system"

// Version fetches the Checkmk server version/edition.
func (c *Client) Version(ctx context.Context) (*SystemInfo, error) {
	raw, _, err := c.do(ctx, familySystem, "GET", "/version", nil)
	if err != nil {
		return nil, err
	}
	var info SystemInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, &ValidationError{Message: "decoding version info: " + err.Error()}
	}
	return &info, nil
}

// Info fetches extended site information (REST API capabilities, site id)
// distinct from Version's bare version/edition pair.
func (c *Client) Info(ctx context.Context) (*SystemInfo, error) {
	raw, _, err := c.do(ctx, familySystem, "GET", "/domain-types/site_connection/collections/all", nil)
	if err != nil {
		return nil, err
	}
	var info SystemInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, &ValidationError{Message: "decoding site info: " + err.Error()}
	}
	return &info, nil
}
