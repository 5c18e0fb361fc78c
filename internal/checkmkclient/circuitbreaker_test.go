package checkmkclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	b := NewCircuitBreaker(3, time.Second)
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute)
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestCircuitBreaker_RecordSuccessResetsFailureCount(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute)
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreaker_HalfOpenAfterRecoveryTimeout(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond)
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())
	// Second concurrent trial is refused while one is in flight.
	assert.False(t, b.Allow())
}

func TestCircuitBreaker_HalfOpenSuccessCloses(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond)
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	require := assert.New(t)
	require.True(b.Allow())
	b.RecordSuccess()
	require.Equal(StateClosed, b.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond)
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerStore_GetIsLazyAndStable(t *testing.T) {
	s := NewBreakerStore(3, time.Minute)
	a := s.Get("hosts")
	b := s.Get("hosts")
	assert.Same(t, a, b)

	other := s.Get("rules")
	assert.NotSame(t, a, other)
}

func TestBreakerStore_Snapshot(t *testing.T) {
	s := NewBreakerStore(1, time.Minute)
	s.Get("hosts").RecordFailure()
	s.Get("rules")

	snap := s.Snapshot()
	assert.Equal(t, StateOpen, snap["hosts"])
	assert.Equal(t, StateClosed, snap["rules"])
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
}
