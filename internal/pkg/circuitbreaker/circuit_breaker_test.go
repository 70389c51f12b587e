package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

func fail(ctx context.Context) error    { return errTest }
func succeed(ctx context.Context) error { return nil }

func newTestBreaker(name string) *CircuitBreaker {
	return NewCircuitBreaker(Config{
		Name:             name,
		FailureThreshold: 3,
		ResetTimeout:     50 * time.Millisecond,
		HalfOpenMaxCalls: 1,
		SuccessThreshold: 1,
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker("opens")

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), fail), errTest)
	}
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.IsHealthy())

	called := false
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "function must not run while open")
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker("reset")

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	require.NoError(t, cb.Execute(context.Background(), succeed))
	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker("recovery")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), fail)
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.IsHealthy())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker("reopen")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), fail)
	}

	time.Sleep(80 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errTest)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	errClient := errors.New("bad request")
	cb := NewCircuitBreaker(Config{
		Name:             "ignored",
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		IsFailure:        func(err error) bool { return !errors.Is(err, errClient) },
	})

	for i := 0; i < 5; i++ {
		err := cb.Execute(context.Background(), func(ctx context.Context) error { return errClient })
		assert.ErrorIs(t, err, errClient)
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := newTestBreaker("cancelled")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, StateClosed, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Closed", StateClosed.String())
	assert.Equal(t, "Open", StateOpen.String())
	assert.Equal(t, "HalfOpen", StateHalfOpen.String())
	assert.Equal(t, "Unknown", State(42).String())
}
