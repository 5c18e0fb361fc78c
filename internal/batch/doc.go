// Package batch implements the bounded-concurrency executor used by the
// batch_* tools: a fixed worker pool rate-limited by a token bucket, with
// per-item retry and monotonic progress counters, built on
// golang.org/x/sync/errgroup and golang.org/x/time/rate.
package batch
