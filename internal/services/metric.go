package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/config"
)

// MetricAPI is the slice of the REST client the metric service needs.
type MetricAPI interface {
	GetGraph(ctx context.Context, hostName, service, graphID string) (json.RawMessage, error)
	GetMetricHistory(ctx context.Context, hostName, service, metric string, reduce checkmkclient.Reduce, start, end int64) (*checkmkclient.MetricHistory, error)
}

// MetricService implements the metrics tool category. Historical data comes
// from the REST API; the scraper source accepted by the configuration is
// not part of this build: such requests are served from the REST path and
// the result carries a warning.
type MetricService struct {
	api      MetricAPI
	cache    *cache.Cache
	cfg      config.HistoricalConfig
}

// NewMetricService constructs a MetricService.
func NewMetricService(api MetricAPI, c *cache.Cache, cfg config.HistoricalConfig) *MetricService {
	return &MetricService{api: api, cache: c, cfg: cfg}
}

// timeRanges maps the symbolic ranges accepted by the tools to durations.
var timeRanges = map[string]time.Duration{
	"1h":  time.Hour,
	"6h":  6 * time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// ResolveTimeRange converts a symbolic range into (start, end) Unix
// timestamps ending now. Unknown ranges default to 24h.
func ResolveTimeRange(rangeName string, now time.Time) (start, end int64) {
	d, ok := timeRanges[rangeName]
	if !ok {
		d = 24 * time.Hour
	}
	return now.Add(-d).Unix(), now.Unix()
}

// ServiceMetrics is the GetServiceMetrics result.
type ServiceMetrics struct {
	Host      string                       `json:"host"`
	Service   string                       `json:"service"`
	TimeRange string                       `json:"time_range"`
	History   *checkmkclient.MetricHistory `json:"history"`
	Warnings  []string                     `json:"warnings,omitempty"`
}

// GetServiceMetrics fetches a reduced time series for a service over a
// symbolic range.
func (s *MetricService) GetServiceMetrics(ctx context.Context, host, service, metric, rangeName string, reduce checkmkclient.Reduce) (*ServiceMetrics, error) {
	start, end := ResolveTimeRange(rangeName, time.Now())

	history, err := s.getHistoryCached(ctx, host, service, metric, reduce, start, end)
	if err != nil {
		return nil, err
	}

	out := &ServiceMetrics{Host: host, Service: service, TimeRange: rangeName, History: history}
	if s.cfg.Source == config.HistoricalSourceScraper {
		out.Warnings = append(out.Warnings, "historical source 'scraper' is not supported in this build; data served from the REST API")
	}
	return out, nil
}

// GetGraph fetches Checkmk's rendered graph data for a service, used when
// the caller asks for a whole graph rather than one named metric.
func (s *MetricService) GetGraph(ctx context.Context, host, service, graphID string) (json.RawMessage, error) {
	key := fmt.Sprintf("metrics:graph:%s:%s:%s", host, service, graphID)
	v, err := s.cache.GetOrLoad(ctx, key, s.cfg.CacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.GetGraph(ctx, host, service, graphID)
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// GetHistory fetches a reduced time series for explicit start/end stamps.
func (s *MetricService) GetHistory(ctx context.Context, host, service, metric string, reduce checkmkclient.Reduce, start, end int64) (*checkmkclient.MetricHistory, error) {
	return s.getHistoryCached(ctx, host, service, metric, reduce, start, end)
}

func (s *MetricService) getHistoryCached(ctx context.Context, host, service, metric string, reduce checkmkclient.Reduce, start, end int64) (*checkmkclient.MetricHistory, error) {
	key := fmt.Sprintf("metrics:%s:%s:%s:%s:%d:%d", host, service, metric, reduce, start, end)
	v, err := s.cache.GetOrLoad(ctx, key, s.cfg.CacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.api.GetMetricHistory(ctx, host, service, metric, reduce, start, end)
	})
	if err != nil {
		return nil, err
	}
	return v.(*checkmkclient.MetricHistory), nil
}
