package checkmkclient

import (
	"sync"
	"time"
)

// BreakerState is one of CLOSED, OPEN, HALF_OPEN.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreaker is a process-long state machine guarding one logical
// external dependency (an endpoint family): after
// FailureThreshold consecutive failures it trips OPEN; after RecoveryTimeout
// it allows exactly one HALF_OPEN trial call, closing on success or
// re-opening on failure.
type CircuitBreaker struct {
	failureThreshold int
	recoveryTimeout  time.Duration

	mu              sync.Mutex
	state           BreakerState
	consecutiveFail int
	openUntil       time.Time
	halfOpenInFlight bool
}

// NewCircuitBreaker constructs a CLOSED breaker.
func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		state:            StateClosed,
	}
}

// Allow reports whether a call may proceed, transitioning OPEN->HALF_OPEN
// once the recovery timeout has elapsed and reserving the single trial slot.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().Before(b.openUntil) {
			return false
		}
		b.state = StateHalfOpen
		b.halfOpenInFlight = true
		return true
	case StateHalfOpen:
		// Exactly one trial call permitted at a time.
		return false
	default:
		return true
	}
}

// RecordSuccess closes the breaker and resets the failure count.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.consecutiveFail = 0
	b.halfOpenInFlight = false
}

// RecordFailure increments the failure count, tripping the breaker open once
// the threshold is reached (or immediately re-opening from HALF_OPEN).
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.trip()
		return
	}

	b.consecutiveFail++
	if b.failureThreshold > 0 && b.consecutiveFail >= b.failureThreshold {
		b.trip()
	}
}

func (b *CircuitBreaker) trip() {
	b.state = StateOpen
	b.openUntil = time.Now().Add(b.recoveryTimeout)
	b.halfOpenInFlight = false
}

// State returns the current breaker state, for metrics/introspection.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// BreakerStore holds one CircuitBreaker per endpoint family, created lazily.
type BreakerStore struct {
	failureThreshold int
	recoveryTimeout  time.Duration

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerStore constructs a store that lazily creates breakers with the
// given configuration for each family name it is asked for.
func NewBreakerStore(failureThreshold int, recoveryTimeout time.Duration) *BreakerStore {
	return &BreakerStore{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		breakers:         make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for family, creating it on first use.
func (s *BreakerStore) Get(family string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.breakers[family]
	if !ok {
		b = NewCircuitBreaker(s.failureThreshold, s.recoveryTimeout)
		s.breakers[family] = b
	}
	return b
}

// Snapshot returns the current state of every breaker created so far, keyed
// by family name — used by the get_server_metrics tool.
func (s *BreakerStore) Snapshot() map[string]BreakerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]BreakerState, len(s.breakers))
	for family, b := range s.breakers {
		out[family] = b.State()
	}
	return out
}
