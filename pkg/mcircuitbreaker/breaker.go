// Package mcircuitbreaker wraps sony/gobreaker with the state vocabulary the
// rest of the service speaks and a listener hook for metrics export.
package mcircuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// State represents a circuit breaker state.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
	StateUnknown  State = "UNKNOWN"
)

// ErrCircuitOpen is returned by Execute while the breaker refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Counts mirrors the request/failure counters of the underlying breaker.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// StateChangeEvent is emitted on every breaker state transition.
type StateChangeEvent struct {
	ServiceName string
	FromState   State
	ToState     State
	Counts      Counts
}

// StateListener receives breaker state transitions.
type StateListener interface {
	OnCircuitBreakerStateChange(event StateChangeEvent)
}

// Settings configures a CircuitBreaker.
type Settings struct {
	ServiceName string
	// FailureThreshold is the number of consecutive failures that trips
	// CLOSED -> OPEN.
	FailureThreshold uint32
	// ResetTimeout is how long the breaker stays OPEN before probing.
	ResetTimeout time.Duration
	// HalfOpenProbeCount is the number of successful probes required to go
	// HALF_OPEN -> CLOSED. One failed probe reopens the breaker.
	HalfOpenProbeCount uint32
	Listener           StateListener
}

// CircuitBreaker guards an external dependency. Calls run through Execute;
// while the breaker is OPEN they fail immediately with ErrCircuitOpen.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// NewCircuitBreaker builds a breaker from the given settings.
func NewCircuitBreaker(s Settings) *CircuitBreaker {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}

	if s.HalfOpenProbeCount == 0 {
		s.HalfOpenProbeCount = 1
	}

	if s.ResetTimeout == 0 {
		s.ResetTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        s.ServiceName,
		MaxRequests: s.HalfOpenProbeCount,
		Timeout:     s.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
	}

	if s.Listener != nil {
		listener := s.Listener
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			listener.OnCircuitBreakerStateChange(StateChangeEvent{
				ServiceName: name,
				FromState:   convertState(from),
				ToState:     convertState(to),
			})
		}
	}

	return &CircuitBreaker{
		name: s.ServiceName,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Execute runs fn under the breaker. ErrCircuitOpen is returned while OPEN,
// or while HALF_OPEN once the probe budget is exhausted.
func (b *CircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}

	return result, err
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() State {
	return convertState(b.cb.State())
}

// Name returns the guarded service name.
func (b *CircuitBreaker) Name() string {
	return b.name
}

func convertState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateClosed:
		return StateClosed
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateUnknown
	}
}
