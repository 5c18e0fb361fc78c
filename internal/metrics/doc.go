// Package metrics collects the counters and gauges surfaced by the
// get_server_metrics tool: Checkmk request latency/outcome, cache hit
// ratio, circuit-breaker state per endpoint family, and batch progress.
// Built on github.com/prometheus/client_golang, registered against a
// private registry rather than the global default so a server instance's
// metrics are self-contained and trivially testable.
package metrics
