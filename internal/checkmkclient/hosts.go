package checkmkclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const familyHosts = "hosts"

// ListHostsParams filters ListHosts.
type ListHostsParams struct {
	Search             string
	Folder             string
	Limit              int
	Offset             int
	EffectiveAttributes bool
}

// ListHosts lists configured hosts.
func (c *Client) ListHosts(ctx context.Context, p ListHostsParams) ([]Host, error) {
	body := map[string]interface{}{"effective_attributes": p.EffectiveAttributes}
	if p.Folder != "" {
		body["parent"] = p.Folder
	}

	raw, _, err := c.do(ctx, familyHosts, "POST", "/domain-types/host_config/collections/all", body,
		WithFallback(func() (json.RawMessage, string, error) {
			return json.RawMessage(`{"value":[]}`), "", nil
		}))
	if err != nil {
		return nil, err
	}

	var env struct {
		Value []struct {
			Title      string                 `json:"title"`
			Extensions map[string]interface{} `json:"extensions"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding host list: " + err.Error()}
	}

	hosts := make([]Host, 0, len(env.Value))
	for _, v := range env.Value {
		h := Host{Name: v.Title}
		if folder, ok := v.Extensions["folder"].(string); ok {
			h.FolderPath = folder
		}
		if attrs, ok := v.Extensions["attributes"].(map[string]interface{}); ok {
			h.Attributes = attrs
		}
		if eff, ok := v.Extensions["effective_attributes"].(map[string]interface{}); ok {
			h.EffectiveAttributes = eff
		}
		hosts = append(hosts, h)
	}

	applyHostFilters(&hosts, p)
	return hosts, nil
}

func applyHostFilters(hosts *[]Host, p ListHostsParams) {
	if p.Search == "" {
		return
	}
	filtered := (*hosts)[:0]
	for _, h := range *hosts {
		if strings.Contains(h.Name, p.Search) {
			filtered = append(filtered, h)
		}
	}
	*hosts = filtered
}

// GetHost fetches one host, optionally with effective attributes.
func (c *Client) GetHost(ctx context.Context, name string, effectiveAttributes bool) (*Host, error) {
	path := fmt.Sprintf("/objects/host_config/%s?effective_attributes=%t", name, effectiveAttributes)
	raw, _, err := c.do(ctx, familyHosts, "GET", path, nil)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return nil, &NotFoundError{ResourceType: "host", ResourceID: name}
		}
		return nil, err
	}

	var env struct {
		Title      string                 `json:"title"`
		Extensions map[string]interface{} `json:"extensions"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding host: " + err.Error()}
	}

	h := &Host{Name: env.Title}
	if folder, ok := env.Extensions["folder"].(string); ok {
		h.FolderPath = folder
	}
	if attrs, ok := env.Extensions["attributes"].(map[string]interface{}); ok {
		h.Attributes = attrs
	}
	if eff, ok := env.Extensions["effective_attributes"].(map[string]interface{}); ok {
		h.EffectiveAttributes = eff
	}
	return h, nil
}

// CreateHostParams is the payload for CreateHost.
type CreateHostParams struct {
	Name       string
	FolderPath string
	Attributes map[string]interface{}
}

// CreateHost creates a host in the given folder.
func (c *Client) CreateHost(ctx context.Context, p CreateHostParams) (*Host, error) {
	body := map[string]interface{}{
		"host_name":  p.Name,
		"folder":     p.FolderPath,
		"attributes": p.Attributes,
	}
	raw, _, err := c.do(ctx, familyHosts, "POST", "/domain-types/host_config/collections/all", body)
	if err != nil {
		return nil, err
	}
	var env struct {
		Title      string                 `json:"title"`
		Extensions map[string]interface{} `json:"extensions"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Host{Name: p.Name, FolderPath: p.FolderPath, Attributes: p.Attributes}, nil
	}
	return &Host{Name: env.Title, FolderPath: p.FolderPath, Attributes: p.Attributes}, nil
}

// UpdateHost updates a host's attributes, requiring its current etag for
// optimistic concurrency.
func (c *Client) UpdateHost(ctx context.Context, name, etag string, attributes map[string]interface{}) error {
	body := map[string]interface{}{"update_attributes": attributes}
	_, _, err := c.do(ctx, familyHosts, "PUT", "/objects/host_config/"+name, body, WithEtag(etag))
	return err
}

// DeleteHost deletes a host.
func (c *Client) DeleteHost(ctx context.Context, name string) error {
	_, _, err := c.do(ctx, familyHosts, "DELETE", "/objects/host_config/"+name, nil)
	return err
}

// ListHostServices lists the monitored services for one host via the
// monitoring endpoint, not the configuration endpoint.
func (c *Client) ListHostServices(ctx context.Context, hostName string) ([]Service, error) {
	body := map[string]interface{}{"host_name": hostName}
	raw, _, err := c.do(ctx, familyHosts, "POST", "/domain-types/service/collections/all", body,
		WithFallback(func() (json.RawMessage, string, error) {
			return json.RawMessage(`{"value":[]}`), "", nil
		}))
	if err != nil {
		return nil, err
	}
	return decodeServiceList(raw)
}
