package clients

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed is the normal operating state. Requests are allowed through.
	StateClosed State = iota

	// StateOpen blocks requests until the open timeout elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probes through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures int

	// Timeout is how long to wait in open state before transitioning to half-open.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes allowed in
	// half-open state and the consecutive successes needed to close.
	HalfOpenLimit int
}

// CircuitBreaker stops calls to an upstream that keeps failing.
//
// State transitions:
//   - Closed → Open: After MaxFailures consecutive failures
//   - Open → HalfOpen: After Timeout has passed on the clock
//   - HalfOpen → Closed: After HalfOpenLimit consecutive successes
//   - HalfOpen → Open: On any failure
type CircuitBreaker struct {
	mu               sync.Mutex
	state            State
	failures         int
	successes        int
	halfOpenRequests int
	openedAt         time.Time
	cfg              CircuitBreakerConfig
	clock            clockwork.Clock

	onStateChange func(from, to State)
	pending       []transition
}

type transition struct{ from, to State }

// NewCircuitBreaker creates a circuit breaker. A nil clock uses the real
// clock.
func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &CircuitBreaker{
		state: StateClosed,
		cfg:   cfg,
		clock: clock,
	}
}

// OnStateChange sets a callback invoked after each state change. It runs
// on the caller's goroutine with no lock held.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Allow reports whether a request may proceed. An open circuit whose
// timeout has passed moves to half-open and admits the caller as a probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	allowed := cb.allow()
	cb.unlockAndNotify()

	return allowed
}

func (cb *CircuitBreaker) allow() bool {
	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if cb.clock.Since(cb.openedAt) < cb.cfg.Timeout {
			return false
		}
		cb.transitionTo(StateHalfOpen)
		cb.halfOpenRequests = 1
		return true

	case StateHalfOpen:
		if cb.halfOpenRequests >= cb.cfg.HalfOpenLimit {
			return false
		}
		cb.halfOpenRequests++
		return true

	default:
		return false
	}
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0

	case StateHalfOpen:
		cb.halfOpenRequests--
		cb.successes++
		if cb.successes >= cb.cfg.HalfOpenLimit {
			cb.transitionTo(StateClosed)
		}
	}

	cb.unlockAndNotify()
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			cb.open()
		}

	case StateHalfOpen:
		cb.halfOpenRequests--
		cb.open()
	}

	cb.unlockAndNotify()
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.clock.Now()
	cb.transitionTo(StateOpen)
}

// transitionTo must be called with the lock held.
func (cb *CircuitBreaker) transitionTo(next State) {
	if cb.state == next {
		return
	}

	cb.pending = append(cb.pending, transition{from: cb.state, to: next})
	cb.state = next
	cb.failures = 0
	cb.successes = 0
	if next != StateHalfOpen {
		cb.halfOpenRequests = 0
	}
}

func (cb *CircuitBreaker) unlockAndNotify() {
	pending := cb.pending
	cb.pending = nil
	fn := cb.onStateChange
	cb.mu.Unlock()

	if fn == nil {
		return
	}
	for _, t := range pending {
		fn(t.from, t.to)
	}
}
