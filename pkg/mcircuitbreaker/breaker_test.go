package mcircuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockListener struct {
	calls []StateChangeEvent
}

func (m *mockListener) OnCircuitBreakerStateChange(event StateChangeEvent) {
	m.calls = append(m.calls, event)
}

var errBoom = errors.New("boom")

func failing() (any, error) { return nil, errBoom }

func succeeding() (any, error) { return "ok", nil }

func TestStateChangeEvent_ContainsRequiredFields(t *testing.T) {
	event := StateChangeEvent{
		ServiceName: "fabric-gateway",
		FromState:   StateClosed,
		ToState:     StateOpen,
		Counts: Counts{
			Requests:            10,
			TotalFailures:       5,
			ConsecutiveFailures: 3,
		},
	}

	assert.Equal(t, "fabric-gateway", event.ServiceName)
	assert.Equal(t, StateClosed, event.FromState)
	assert.Equal(t, StateOpen, event.ToState)
	assert.Equal(t, uint32(10), event.Counts.Requests)
	assert.Equal(t, uint32(5), event.Counts.TotalFailures)
	assert.Equal(t, uint32(3), event.Counts.ConsecutiveFailures)
}

func TestCircuitBreaker_TripsAfterExactlyFailureThreshold(t *testing.T) {
	listener := &mockListener{}
	cb := NewCircuitBreaker(Settings{
		ServiceName:        "fabric-gateway",
		FailureThreshold:   3,
		ResetTimeout:       time.Minute,
		HalfOpenProbeCount: 1,
		Listener:           listener,
	})

	assert.Equal(t, StateClosed, cb.State())

	_, _ = cb.Execute(failing)
	_, _ = cb.Execute(failing)
	assert.Equal(t, StateClosed, cb.State())

	_, _ = cb.Execute(failing)
	assert.Equal(t, StateOpen, cb.State())

	assert.Len(t, listener.calls, 1)
	assert.Equal(t, StateClosed, listener.calls[0].FromState)
	assert.Equal(t, StateOpen, listener.calls[0].ToState)
}

func TestCircuitBreaker_FailsFastWhileOpen(t *testing.T) {
	cb := NewCircuitBreaker(Settings{
		ServiceName:        "fabric-gateway",
		FailureThreshold:   1,
		ResetTimeout:       time.Minute,
		HalfOpenProbeCount: 1,
	})

	_, _ = cb.Execute(failing)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	_, err := cb.Execute(func() (any, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "guarded call must not run while OPEN")
}

func TestCircuitBreaker_HalfOpenClosesAfterProbeCount(t *testing.T) {
	listener := &mockListener{}
	cb := NewCircuitBreaker(Settings{
		ServiceName:        "fabric-gateway",
		FailureThreshold:   1,
		ResetTimeout:       50 * time.Millisecond,
		HalfOpenProbeCount: 2,
		Listener:           listener,
	})

	_, _ = cb.Execute(failing)
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	_, err := cb.Execute(succeeding)
	assert.NoError(t, err)
	assert.Equal(t, StateHalfOpen, cb.State())

	_, err = cb.Execute(succeeding)
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenReopensOnFirstFailure(t *testing.T) {
	cb := NewCircuitBreaker(Settings{
		ServiceName:        "fabric-gateway",
		FailureThreshold:   1,
		ResetTimeout:       50 * time.Millisecond,
		HalfOpenProbeCount: 3,
	})

	_, _ = cb.Execute(failing)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	_, _ = cb.Execute(failing)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{
		ServiceName:        "fabric-gateway",
		FailureThreshold:   3,
		ResetTimeout:       time.Minute,
		HalfOpenProbeCount: 1,
	})

	_, _ = cb.Execute(failing)
	_, _ = cb.Execute(failing)
	_, _ = cb.Execute(succeeding)
	_, _ = cb.Execute(failing)
	_, _ = cb.Execute(failing)

	assert.Equal(t, StateClosed, cb.State())
}

func TestConvertState_AllStates(t *testing.T) {
	listener := &mockListener{}
	cb := NewCircuitBreaker(Settings{
		ServiceName:        "svc",
		FailureThreshold:   1,
		ResetTimeout:       50 * time.Millisecond,
		HalfOpenProbeCount: 1,
		Listener:           listener,
	})

	_, _ = cb.Execute(failing)
	time.Sleep(60 * time.Millisecond)
	_, _ = cb.Execute(succeeding)

	// CLOSED -> OPEN, OPEN -> HALF_OPEN, HALF_OPEN -> CLOSED
	assert.Len(t, listener.calls, 3)
	assert.Equal(t, StateOpen, listener.calls[0].ToState)
	assert.Equal(t, StateHalfOpen, listener.calls[1].ToState)
	assert.Equal(t, StateClosed, listener.calls[2].ToState)
}
