package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/config"
)

type fakeMetricAPI struct {
	calls int
}

func (f *fakeMetricAPI) GetGraph(ctx context.Context, host, service, graphID string) (json.RawMessage, error) {
	return json.RawMessage(`{"curves":[]}`), nil
}

func (f *fakeMetricAPI) GetMetricHistory(ctx context.Context, host, service, metric string, reduce checkmkclient.Reduce, start, end int64) (*checkmkclient.MetricHistory, error) {
	f.calls++
	return &checkmkclient.MetricHistory{
		Metric: metric,
		Reduce: string(reduce),
		Points: []checkmkclient.MetricPoint{{Timestamp: start, Value: 1.5}},
	}, nil
}

func newMetricFixture(source config.HistoricalSource) (*MetricService, *fakeMetricAPI) {
	api := &fakeMetricAPI{}
	c := cache.New(100, time.Minute, 0)
	return NewMetricService(api, c, config.HistoricalConfig{Source: source, CacheTTL: time.Minute}), api
}

func TestResolveTimeRange(t *testing.T) {
	now := time.Unix(1_000_000, 0)

	start, end := ResolveTimeRange("1h", now)
	assert.Equal(t, now.Unix(), end)
	assert.Equal(t, now.Add(-time.Hour).Unix(), start)

	// Unknown ranges fall back to 24h.
	start, _ = ResolveTimeRange("bogus", now)
	assert.Equal(t, now.Add(-24*time.Hour).Unix(), start)
}

func TestMetricService_GetServiceMetrics(t *testing.T) {
	svc, _ := newMetricFixture(config.HistoricalSourceRESTAPI)

	m, err := svc.GetServiceMetrics(context.Background(), "h1", "CPU load", "load1", "1h", checkmkclient.ReduceAverage)
	require.NoError(t, err)
	assert.Equal(t, "load1", m.History.Metric)
	assert.Empty(t, m.Warnings)
}

func TestMetricService_ScraperSourceWarnsAndFallsBack(t *testing.T) {
	svc, api := newMetricFixture(config.HistoricalSourceScraper)

	m, err := svc.GetServiceMetrics(context.Background(), "h1", "CPU load", "load1", "1h", checkmkclient.ReduceMax)
	require.NoError(t, err)
	require.Len(t, m.Warnings, 1)
	assert.Contains(t, m.Warnings[0], "scraper")
	assert.Equal(t, 1, api.calls)
}

func TestMetricService_HistoryCached(t *testing.T) {
	svc, api := newMetricFixture(config.HistoricalSourceRESTAPI)

	_, err := svc.GetHistory(context.Background(), "h1", "CPU load", "load1", checkmkclient.ReduceMin, 100, 200)
	require.NoError(t, err)
	_, err = svc.GetHistory(context.Background(), "h1", "CPU load", "load1", checkmkclient.ReduceMin, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)
}
