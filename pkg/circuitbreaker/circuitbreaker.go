package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

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

type Settings struct {
	Name string
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long calls are rejected before a single trial call
	// is let through.
	OpenTimeout   time.Duration
	IsFailure     func(err error) bool
	OnStateChange func(name string, from State, to State)
}

type CircuitBreaker struct {
	name          string
	threshold     uint32
	openTimeout   time.Duration
	isFailure     func(err error) bool
	onStateChange func(name string, from State, to State)
	now           func() time.Time

	mutex    sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	trial    bool
}

func New(st Settings) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:          st.Name,
		threshold:     st.FailureThreshold,
		openTimeout:   st.OpenTimeout,
		isFailure:     st.IsFailure,
		onStateChange: st.OnStateChange,
		now:           time.Now,
	}

	if cb.threshold == 0 {
		cb.threshold = 5
	}

	if cb.openTimeout <= 0 {
		cb.openTimeout = 30 * time.Second
	}

	if cb.isFailure == nil {
		cb.isFailure = defaultIsFailure
	}

	return cb
}

// A cancelled caller says nothing about the health of the dependency.
func defaultIsFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

// Execute runs fn unless the breaker is open. A panic in fn counts as a
// failure and is re-raised.
func (cb *CircuitBreaker) Execute(fn func() error) (err error) {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			cb.afterRequest(false)
			panic(p)
		}
	}()

	err = fn()
	cb.afterRequest(!cb.isFailure(err))
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.currentState() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if cb.trial {
			return ErrOpen
		}
		cb.trial = true
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	state := cb.currentState()
	cb.trial = false

	if success {
		cb.failures = 0
		if state != StateClosed {
			cb.setState(StateClosed)
		}
		return
	}

	cb.failures++
	if state == StateHalfOpen || cb.failures >= cb.threshold {
		cb.openedAt = cb.now()
		cb.setState(StateOpen)
	}
}

// currentState moves an expired open breaker to half-open. Callers hold the
// mutex.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.openTimeout {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	if state == StateClosed {
		cb.failures = 0
	}

	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return cb.currentState()
}
