package sazito

import (
	"sync"
	"time"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
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

// CircuitBreaker stops sending requests after FailureThreshold consecutive
// failed attempts. Only transport failures and 5xx responses count as
// failures. After RecoveryTimeout it lets requests through again (half-open)
// and closes once SuccessThreshold of them succeed; any failure while
// half-open reopens it.
type CircuitBreaker struct {
	mu        sync.Mutex
	config    CircuitBreakerConfig
	state     CircuitState
	failures  int
	successes int
	openedAt  time.Time

	now      func() time.Time
	onChange func(from, to CircuitState)
}

// NewCircuitBreaker applies defaults to zero fields: 5 failures, 60s
// recovery, 2 successes.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 60 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	return &CircuitBreaker{config: config, state: StateClosed, now: time.Now}
}

// Allow reports whether an attempt may be sent. An open breaker past its
// recovery timeout moves to half-open and allows it.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.config.RecoveryTimeout {
			return false
		}
		cb.successes = 0
		cb.transition(StateHalfOpen)
		return true
	default:
		return true
	}
}

// RecordFailure records a failed attempt.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.open()
		}
	case StateHalfOpen:
		cb.open()
	case StateOpen:
		cb.openedAt = cb.now()
	}
}

// RecordSuccess records an attempt that reached the API without a 5xx.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.failures = 0
			cb.successes = 0
			cb.transition(StateClosed)
		}
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.successes = 0
	cb.transition(StateOpen)
}

// transition is called with mu held.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	if from != to && cb.onChange != nil {
		cb.onChange(from, to)
	}
}
