package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toItems(n int) []interface{} {
	items := make([]interface{}, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestExecutor_Run_AllSucceed(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 4})
	result := e.Run(context.Background(), toItems(10), func(ctx context.Context, item interface{}) error {
		return nil
	})

	assert.Len(t, result.Items, 10)
	assert.Equal(t, int64(10), result.Progress.Succeeded)
	assert.Equal(t, int64(0), result.Progress.Failed)
	for _, r := range result.Items {
		assert.NoError(t, r.Error)
	}
}

func TestExecutor_Run_RetriesThenSucceeds(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 1, MaxRetries: 3, RetryBaseDelay: time.Millisecond})
	var calls int32
	result := e.Run(context.Background(), toItems(1), func(ctx context.Context, item interface{}) error {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.Len(t, result.Items, 1)
	assert.NoError(t, result.Items[0].Error)
	assert.Equal(t, 2, result.Items[0].Retries)
	assert.Equal(t, int64(2), result.Progress.Retried)
}

func TestExecutor_Run_ExhaustsRetriesAndFails(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 1, MaxRetries: 2, RetryBaseDelay: time.Millisecond})
	wantErr := errors.New("permanent")
	result := e.Run(context.Background(), toItems(1), func(ctx context.Context, item interface{}) error {
		return wantErr
	})

	require.Len(t, result.Items, 1)
	assert.ErrorIs(t, result.Items[0].Error, wantErr)
	assert.Equal(t, int64(1), result.Progress.Failed)
}

func TestExecutor_Run_OneFailureDoesNotCancelOthersByDefault(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 4})
	result := e.Run(context.Background(), toItems(5), func(ctx context.Context, item interface{}) error {
		if item.(int) == 0 {
			return errors.New("item 0 fails")
		}
		return nil
	})

	assert.Equal(t, int64(4), result.Progress.Succeeded)
	assert.Equal(t, int64(1), result.Progress.Failed)
}

func TestExecutor_Run_FailFastCancelsPendingStarts(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 1, FailFast: true})
	var processed int32
	result := e.Run(context.Background(), toItems(5), func(ctx context.Context, item interface{}) error {
		atomic.AddInt32(&processed, 1)
		if item.(int) == 0 {
			return errors.New("boom")
		}
		return nil
	})

	// At least the first item ran and failed; not every remaining item
	// necessarily got a chance to start once cancellation propagated.
	assert.GreaterOrEqual(t, result.Progress.Failed, int64(1))
	assert.LessOrEqual(t, atomic.LoadInt32(&processed), int32(5))
}

func TestExecutor_Run_RespectsMaxConcurrent(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 2})
	var current, maxSeen int32

	result := e.Run(context.Background(), toItems(10), func(ctx context.Context, item interface{}) error {
		n := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&maxSeen)
			if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return nil
	})

	assert.Equal(t, int64(10), result.Progress.Succeeded)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(2))
}

func TestExecutor_Run_RateLimited(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 10, RateLimit: 100})
	start := time.Now()
	result := e.Run(context.Background(), toItems(5), func(ctx context.Context, item interface{}) error {
		return nil
	})
	assert.Equal(t, int64(5), result.Progress.Succeeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecutor_Run_CancellationAbortsPendingStarts(t *testing.T) {
	e := NewExecutor(Config{MaxConcurrent: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Run(ctx, toItems(3), func(ctx context.Context, item interface{}) error {
		return nil
	})
	for _, r := range result.Items {
		assert.Error(t, r.Error)
	}
}
