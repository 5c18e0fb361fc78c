package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"checkmkmcp/internal/batch"
	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
)

// Collector holds every metric the get_server_metrics tool reports.
// It is constructed with its own prometheus.Registry rather
// than the global default so multiple servers in the same process (e.g. in
// tests) never collide on metric registration.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	// Cache counters are exposed as gauges, not prometheus.Counter: the
	// authoritative cumulative totals live in cache.Stats, and this
	// Collector only ever mirrors the latest snapshot rather than
	// independently accumulating.
	CacheHits      prometheus.Gauge
	CacheMisses    prometheus.Gauge
	CacheEvictions prometheus.Gauge
	CacheSize      prometheus.Gauge
	CircuitState   *prometheus.GaugeVec
	BatchAttempted prometheus.Counter
	BatchSucceeded prometheus.Counter
	BatchFailed    prometheus.Counter
	BatchRetried   prometheus.Counter
}

// NewCollector constructs and registers every metric.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkmkmcp",
			Name:      "checkmk_requests_total",
			Help:      "Total Checkmk REST API requests, by endpoint family and outcome.",
		}, []string{"family", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "checkmkmcp",
			Name:      "checkmk_request_duration_seconds",
			Help:      "Checkmk REST API request latency, by endpoint family.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"family"}),
		CacheHits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "checkmkmcp", Name: "cache_hits_total", Help: "Cumulative cache hits.",
		}),
		CacheMisses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "checkmkmcp", Name: "cache_misses_total", Help: "Cumulative cache misses.",
		}),
		CacheEvictions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "checkmkmcp", Name: "cache_evictions_total", Help: "Cumulative cache evictions.",
		}),
		CacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "checkmkmcp", Name: "cache_size", Help: "Current cache entry count.",
		}),
		CircuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "checkmkmcp",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per endpoint family (0=closed, 1=half_open, 2=open).",
		}, []string{"family"}),
		BatchAttempted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkmkmcp", Name: "batch_items_attempted_total", Help: "Batch items attempted.",
		}),
		BatchSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkmkmcp", Name: "batch_items_succeeded_total", Help: "Batch items succeeded.",
		}),
		BatchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkmkmcp", Name: "batch_items_failed_total", Help: "Batch items failed.",
		}),
		BatchRetried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkmkmcp", Name: "batch_items_retried_total", Help: "Batch item retry attempts.",
		}),
	}

	reg.MustRegister(
		c.RequestsTotal, c.RequestDuration,
		c.CacheHits, c.CacheMisses, c.CacheEvictions, c.CacheSize,
		c.CircuitState,
		c.BatchAttempted, c.BatchSucceeded, c.BatchFailed, c.BatchRetried,
	)
	return c
}

// Registry exposes the underlying prometheus.Registry, e.g. for wiring an
// HTTP /metrics endpoint if one is ever added.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// circuitStateValue maps a breaker state to the gauge value documented in
// CircuitState's Help string.
func circuitStateValue(s checkmkclient.BreakerState) float64 {
	switch s {
	case checkmkclient.StateClosed:
		return 0
	case checkmkclient.StateHalfOpen:
		return 1
	case checkmkclient.StateOpen:
		return 2
	default:
		return 0
	}
}

// ObserveCircuitBreakers copies a breaker snapshot into the CircuitState
// gauge vector.
func (c *Collector) ObserveCircuitBreakers(snapshot map[string]checkmkclient.BreakerState) {
	for family, state := range snapshot {
		c.CircuitState.WithLabelValues(family).Set(circuitStateValue(state))
	}
}

// ObserveCache copies a cache.Stats snapshot into the cache gauges, called
// periodically (e.g. on every get_server_metrics invocation).
func (c *Collector) ObserveCache(stats cache.Stats) {
	c.CacheSize.Set(float64(stats.Size))
	c.CacheHits.Set(float64(stats.Hits))
	c.CacheMisses.Set(float64(stats.Misses))
	c.CacheEvictions.Set(float64(stats.Evictions))
}

// ObserveRequest records one completed Checkmk REST call.
func (c *Collector) ObserveRequest(family, outcome string, duration time.Duration) {
	c.RequestsTotal.WithLabelValues(family, outcome).Inc()
	c.RequestDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// ObserveBatch adds the counts of one batch.Progress to the batch counters
// as they are (the executor's own counters are monotonic within a run, so
// callers pass the final Progress once the run completes).
func (c *Collector) ObserveBatch(p batch.Progress) {
	c.BatchAttempted.Add(float64(p.Attempted))
	c.BatchSucceeded.Add(float64(p.Succeeded))
	c.BatchFailed.Add(float64(p.Failed))
	c.BatchRetried.Add(float64(p.Retried))
}
