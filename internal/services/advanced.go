package services

import (
	"context"
	"time"

	"checkmkmcp/internal/batch"
	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/metrics"
	"checkmkmcp/internal/streaming"
	"checkmkmcp/pkg/logging"
)

// AdvancedAPI is the slice of the REST client the advanced service needs.
type AdvancedAPI interface {
	Version(ctx context.Context) (*checkmkclient.SystemInfo, error)
	ListHosts(ctx context.Context, p checkmkclient.ListHostsParams) ([]checkmkclient.Host, error)
	CreateHost(ctx context.Context, p checkmkclient.CreateHostParams) (*checkmkclient.Host, error)
	BreakerSnapshot() map[string]checkmkclient.BreakerState
}

// AdvancedService implements the advanced tool category: system info,
// host streaming, bulk host creation, server metrics, and cache control.
type AdvancedService struct {
	api             AdvancedAPI
	cache           *cache.Cache
	collector       *metrics.Collector
	batchCfg        batch.Config
	streamBatchSize int
	cacheTTL        time.Duration
}

// NewAdvancedService constructs an AdvancedService.
func NewAdvancedService(api AdvancedAPI, c *cache.Cache, collector *metrics.Collector, batchCfg batch.Config, streamBatchSize int, cacheTTL time.Duration) *AdvancedService {
	if streamBatchSize <= 0 {
		streamBatchSize = 100
	}
	return &AdvancedService{
		api:             api,
		cache:           c,
		collector:       collector,
		batchCfg:        batchCfg,
		streamBatchSize: streamBatchSize,
		cacheTTL:        cacheTTL,
	}
}

// GetSystemInfo fetches the Checkmk version/edition, cached briefly.
func (s *AdvancedService) GetSystemInfo(ctx context.Context) (*checkmkclient.SystemInfo, error) {
	v, err := s.cache.GetOrLoad(ctx, "system:info", s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.Version(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*checkmkclient.SystemInfo), nil
}

// HostBatch is one page of a host stream.
type HostBatch struct {
	BatchNumber int                  `json:"batch_number"`
	Offset      int                  `json:"offset"`
	Count       int                  `json:"count"`
	More        bool                 `json:"more"`
	Hosts       []checkmkclient.Host `json:"hosts"`
}

// HostStream is the StreamHosts result: the full traversal rendered as
// explicit batches, so a client can see the pagination structure without
// holding a live connection.
type HostStream struct {
	Batches    []HostBatch `json:"batches"`
	BatchSize  int         `json:"batch_size"`
	TotalHosts int         `json:"total_hosts"`
}

// StreamHosts traverses the host collection in pages of batchSize. The host
// configuration endpoint returns the full collection in one response, so the
// page fetch slices a single upstream snapshot; the iterator still enforces
// ordering, batch numbering, and cancellation.
func (s *AdvancedService) StreamHosts(ctx context.Context, folder string, batchSize int) (*HostStream, error) {
	if batchSize <= 0 {
		batchSize = s.streamBatchSize
	}

	hosts, err := s.api.ListHosts(ctx, checkmkclient.ListHostsParams{Folder: folder})
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, offset, size int) ([]interface{}, error) {
		if offset >= len(hosts) {
			return nil, nil
		}
		end := offset + size
		if end > len(hosts) {
			end = len(hosts)
		}
		page := make([]interface{}, 0, end-offset)
		for _, h := range hosts[offset:end] {
			page = append(page, h)
		}
		return page, nil
	}

	stream := &HostStream{BatchSize: batchSize, TotalHosts: len(hosts)}
	for b := range streaming.Paginated(ctx, fetch, batchSize) {
		if b.Err != nil {
			return nil, b.Err
		}
		batchHosts := make([]checkmkclient.Host, 0, len(b.Items))
		for _, item := range b.Items {
			batchHosts = append(batchHosts, item.(checkmkclient.Host))
		}
		stream.Batches = append(stream.Batches, HostBatch{
			BatchNumber: b.BatchNumber,
			Offset:      b.Offset,
			Count:       len(b.Items),
			More:        b.More,
			Hosts:       batchHosts,
		})
	}
	return stream, nil
}

// BatchCreateResult is the per-item outcome of BatchCreateHosts.
type BatchCreateResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// BatchCreateHosts creates many hosts under bounded concurrency with
// per-item retry. One host failing never cancels the others.
func (s *AdvancedService) BatchCreateHosts(ctx context.Context, hosts []checkmkclient.CreateHostParams) (*BatchCreateResult, error) {
	items := make([]interface{}, len(hosts))
	for i, h := range hosts {
		items[i] = h
	}

	executor := batch.NewExecutor(s.batchCfg)
	result := executor.Run(ctx, items, func(ctx context.Context, item interface{}) error {
		_, err := s.api.CreateHost(ctx, item.(checkmkclient.CreateHostParams))
		return err
	})
	s.collector.ObserveBatch(result.Progress)
	s.cache.InvalidatePattern("hosts:*")

	out := &BatchCreateResult{Errors: map[string]string{}}
	for _, item := range result.Items {
		if item.Error != nil {
			out.Failed++
			out.Errors[item.Item.(checkmkclient.CreateHostParams).Name] = item.Error.Error()
			continue
		}
		out.Succeeded++
	}
	logging.InfoCtx(ctx, "AdvancedService", "batch host create: %d succeeded, %d failed", out.Succeeded, out.Failed)
	return out, nil
}

// ServerMetrics is the observability snapshot returned to clients.
type ServerMetrics struct {
	Cache    cache.Stats       `json:"cache"`
	Breakers map[string]string `json:"circuit_breakers"`
}

// GetServerMetrics snapshots cache and circuit-breaker state, mirroring the
// same values into the Prometheus collector.
func (s *AdvancedService) GetServerMetrics(ctx context.Context) *ServerMetrics {
	stats := s.cache.Stats()
	snapshot := s.api.BreakerSnapshot()

	s.collector.ObserveCache(stats)
	s.collector.ObserveCircuitBreakers(snapshot)

	breakers := make(map[string]string, len(snapshot))
	for family, state := range snapshot {
		breakers[family] = state.String()
	}
	return &ServerMetrics{Cache: stats, Breakers: breakers}
}

// ClearCache drops cached entries matching pattern ("" clears everything),
// returning how many entries were removed.
func (s *AdvancedService) ClearCache(pattern string) int {
	if pattern == "" {
		pattern = "*"
	}
	removed := s.cache.InvalidatePattern(pattern)
	logging.Info("AdvancedService", "cleared %d cache entries matching %q", removed, pattern)
	return removed
}
