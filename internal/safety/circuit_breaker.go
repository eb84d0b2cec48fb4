package safety

import (
	"fmt"
	"sync"
	"time"
)

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

// String returns the string representation of the circuit breaker state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig holds configuration for a circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold uint32        // consecutive failures before opening
	SuccessThreshold uint32        // half-open successes needed to close
	Timeout          time.Duration // how long the breaker stays open
}

// OpenError is returned by Call while the breaker rejects calls
type OpenError struct {
	Name  string
	Until time.Time
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker %s is open until %s", e.Name, e.Until.Format(time.RFC3339))
}

// CircuitBreaker stops calling a failing upstream for a cool-down period
type CircuitBreaker struct {
	config        CircuitBreakerConfig
	name          string
	now           func() time.Time
	mutex         sync.Mutex
	state         CircuitBreakerState
	failures      uint32
	successes     uint32
	nextAttempt   time.Time
	onStateChange func(name string, from, to CircuitBreakerState)
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = 1
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		config: config,
		name:   name,
		now:    time.Now,
		state:  StateClosed,
	}
}

// SetStateChangeCallback sets a callback invoked synchronously after every
// state transition. It must not call back into the breaker.
func (cb *CircuitBreaker) SetStateChangeCallback(callback func(name string, from, to CircuitBreakerState)) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.onStateChange = callback
}

// Call runs fn unless the breaker is open. Errors for which countable
// returns false pass through without affecting the breaker (nil counts all).
func (cb *CircuitBreaker) Call(fn func() error, countable func(error) bool) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn()
	cb.after(err == nil || (countable != nil && !countable(err)))
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == StateOpen {
		if cb.now().Before(cb.nextAttempt) {
			return &OpenError{Name: cb.name, Until: cb.nextAttempt}
		}
		cb.transition(StateHalfOpen)
	}
	return nil
}

func (cb *CircuitBreaker) after(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.transition(StateClosed)
			}
		}
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
		cb.nextAttempt = cb.now().Add(cb.config.Timeout)
		cb.transition(StateOpen)
	}
}

// transition must be called with the mutex held
func (cb *CircuitBreaker) transition(to CircuitBreakerState) {
	from := cb.state
	cb.state = to
	cb.successes = 0
	if to == StateClosed {
		cb.failures = 0
	}
	if cb.onStateChange != nil && from != to {
		cb.onStateChange(cb.name, from, to)
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Reset closes the breaker
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.transition(StateClosed)
}
