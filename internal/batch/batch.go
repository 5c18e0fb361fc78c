package batch

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"checkmkmcp/pkg/logging"
)

// Config tunes an Executor.
type Config struct {
	MaxConcurrent  int
	MaxRetries     int
	RetryBaseDelay time.Duration
	RateLimit      float64 // operations per second; 0 disables limiting
	FailFast       bool
}

// ItemResult is the per-item outcome of a batch run.
type ItemResult struct {
	Index   int
	Item    interface{}
	Error   error
	Retries int
}

// Progress exposes monotonic counters observable while a batch is running.
type Progress struct {
	Attempted int64
	Succeeded int64
	Failed    int64
	Retried   int64
}

// Result is the aggregate outcome of Executor.Run.
type Result struct {
	Items    []ItemResult
	Progress Progress
}

// OperationFunc applies the batch operation to one item.
type OperationFunc func(ctx context.Context, item interface{}) error

// Executor runs OperationFunc over a slice of items under bounded
// concurrency, a token-bucket rate limit, and per-item retry.
type Executor struct {
	cfg     Config
	limiter *rate.Limiter

	attempted int64
	succeeded int64
	failed    int64
	retried   int64
}

// NewExecutor constructs an Executor. A zero MaxConcurrent defaults to 10; a
// zero RateLimit disables rate limiting entirely.
func NewExecutor(cfg Config) *Executor {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 100 * time.Millisecond
	}

	e := &Executor{cfg: cfg}
	if cfg.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(math.Max(1, cfg.RateLimit)))
	}
	return e
}

// Progress returns a snapshot of the running counters.
func (e *Executor) Progress() Progress {
	return Progress{
		Attempted: atomic.LoadInt64(&e.attempted),
		Succeeded: atomic.LoadInt64(&e.succeeded),
		Failed:    atomic.LoadInt64(&e.failed),
		Retried:   atomic.LoadInt64(&e.retried),
	}
}

// Run applies op to every item, respecting ctx cancellation: pending starts
// are aborted, in-flight items run to completion. With FailFast unset (the
// default), one item's failure never
// cancels the others. Concurrency is bounded via errgroup.SetLimit rather
// than a hand-rolled semaphore.
func (e *Executor) Run(ctx context.Context, items []interface{}, op OperationFunc) Result {
	results := make([]ItemResult, len(items))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(e.cfg.MaxConcurrent)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = ItemResult{Index: i, Item: item, Error: gctx.Err()}
				return nil
			}

			if e.limiter != nil {
				if err := e.limiter.Wait(gctx); err != nil {
					results[i] = ItemResult{Index: i, Item: item, Error: err}
					return nil
				}
			}

			res := e.runOne(gctx, i, item, op)
			results[i] = res
			if res.Error != nil && e.cfg.FailFast {
				cancel()
			}
			return nil
		})
	}

	_ = g.Wait()
	return Result{Items: results, Progress: e.Progress()}
}

func (e *Executor) runOne(ctx context.Context, index int, item interface{}, op OperationFunc) ItemResult {
	var lastErr error
	retries := 0

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		atomic.AddInt64(&e.attempted, 1)
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		lastErr = op(ctx, item)
		if lastErr == nil {
			atomic.AddInt64(&e.succeeded, 1)
			return ItemResult{Index: index, Item: item, Retries: retries}
		}

		if attempt == e.cfg.MaxRetries {
			break
		}

		retries++
		atomic.AddInt64(&e.retried, 1)
		delay := backoffDelay(e.cfg.RetryBaseDelay, attempt)
		logging.DebugCtx(ctx, "BatchExecutor", "item %d retry %d after %v: %v", index, retries, delay, lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			lastErr = ctx.Err()
			goto done
		case <-timer.C:
		}
	}

done:
	atomic.AddInt64(&e.failed, 1)
	return ItemResult{Index: index, Item: item, Error: lastErr, Retries: retries}
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	backoff := float64(base) * math.Pow(2, float64(attempt))
	jitter := backoff * 0.2
	return time.Duration(backoff - jitter + rand.Float64()*2*jitter)
}
