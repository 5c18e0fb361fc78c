package services

import (
	"context"
	"fmt"
	"time"

	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/requestid"
	"checkmkmcp/pkg/logging"
)

// HostAPI is the slice of the REST client the host service needs.
type HostAPI interface {
	ListHosts(ctx context.Context, p checkmkclient.ListHostsParams) ([]checkmkclient.Host, error)
	GetHost(ctx context.Context, name string, effectiveAttributes bool) (*checkmkclient.Host, error)
	CreateHost(ctx context.Context, p checkmkclient.CreateHostParams) (*checkmkclient.Host, error)
	UpdateHost(ctx context.Context, name, etag string, attributes map[string]interface{}) error
	DeleteHost(ctx context.Context, name string) error
	ListHostServices(ctx context.Context, hostName string) ([]checkmkclient.Service, error)
}

// HostService implements the host tool category.
type HostService struct {
	api      HostAPI
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewHostService constructs a HostService.
func NewHostService(api HostAPI, c *cache.Cache, cacheTTL time.Duration) *HostService {
	return &HostService{api: api, cache: c, cacheTTL: cacheTTL}
}

// HostList is the List result with pagination bookkeeping.
type HostList struct {
	Hosts  []checkmkclient.Host `json:"hosts"`
	Count  int                  `json:"count"`
	Total  int                  `json:"total"`
	Offset int                  `json:"offset"`
}

// List returns configured hosts, served from cache when fresh. Limit and
// offset are applied after the (cached) upstream fetch since the host
// configuration endpoint returns the full collection.
func (s *HostService) List(ctx context.Context, p checkmkclient.ListHostsParams) (*HostList, error) {
	key := fmt.Sprintf("hosts:list:%s:%s:%t", p.Search, p.Folder, p.EffectiveAttributes)

	v, err := s.cache.GetOrLoad(ctx, key, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.ListHosts(ctx, checkmkclient.ListHostsParams{
			Search:              p.Search,
			Folder:              p.Folder,
			EffectiveAttributes: p.EffectiveAttributes,
		})
	})
	if err != nil {
		return nil, err
	}
	hosts := v.([]checkmkclient.Host)

	total := len(hosts)
	page := paginateHosts(hosts, p.Offset, p.Limit)
	return &HostList{Hosts: page, Count: len(page), Total: total, Offset: p.Offset}, nil
}

func paginateHosts(hosts []checkmkclient.Host, offset, limit int) []checkmkclient.Host {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(hosts) {
		return []checkmkclient.Host{}
	}
	page := hosts[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}
	return page
}

// Get fetches one host, optionally with effective attributes.
func (s *HostService) Get(ctx context.Context, name string, effectiveAttributes bool) (*checkmkclient.Host, error) {
	key := fmt.Sprintf("hosts:get:%s:%t", name, effectiveAttributes)
	v, err := s.cache.GetOrLoad(ctx, key, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.GetHost(ctx, name, effectiveAttributes)
	})
	if err != nil {
		return nil, err
	}
	return v.(*checkmkclient.Host), nil
}

// Create creates a host and invalidates every cached host read.
func (s *HostService) Create(ctx context.Context, p checkmkclient.CreateHostParams) (*checkmkclient.Host, error) {
	host, err := s.api.CreateHost(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidateHost(p.Name)
	logging.InfoCtx(ctx, "HostService", "created host %s in %s", p.Name, p.FolderPath)
	return host, nil
}

// Update rewrites a host's attributes. An empty etag falls back to an
// unconditional If-Match so callers are not forced to pre-fetch.
func (s *HostService) Update(ctx context.Context, name, etag string, attributes map[string]interface{}) error {
	if etag == "" {
		etag = "*"
	}
	if err := s.api.UpdateHost(ctx, name, etag, attributes); err != nil {
		return err
	}
	s.invalidateHost(name)
	return nil
}

// Delete removes a host and invalidates every cached host read.
func (s *HostService) Delete(ctx context.Context, name string) error {
	if err := s.api.DeleteHost(ctx, name); err != nil {
		return err
	}
	s.invalidateHost(name)
	logging.Audit(logging.AuditEvent{
		Action:    "delete_host",
		Outcome:   "success",
		RequestID: requestid.FromContext(ctx),
		Target:    name,
	})
	return nil
}

// ListServices returns the monitored services of one host.
func (s *HostService) ListServices(ctx context.Context, hostName string) ([]checkmkclient.Service, error) {
	key := "services:host:" + hostName
	v, err := s.cache.GetOrLoad(ctx, key, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.ListHostServices(ctx, hostName)
	})
	if err != nil {
		return nil, err
	}
	return v.([]checkmkclient.Service), nil
}

// invalidateHost drops the list caches plus every per-host entry naming
// this host.
func (s *HostService) invalidateHost(name string) {
	s.cache.InvalidatePattern("hosts:list:*")
	s.cache.InvalidatePattern(fmt.Sprintf("hosts:get:%s:*", name))
	s.cache.Invalidate("services:host:" + name)
}
