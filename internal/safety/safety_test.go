package safety

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var errUpstream = errors.New("upstream down")

func failing() error { return errUpstream }
func ok() error      { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("yahoo", CircuitBreakerConfig{FailureThreshold: 2, Timeout: time.Minute})
	cb.now = clock.Now

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to CircuitBreakerState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	assert.ErrorIs(t, cb.Call(failing, nil), errUpstream)
	assert.Equal(t, StateClosed, cb.GetState())
	assert.ErrorIs(t, cb.Call(failing, nil), errUpstream)
	assert.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Call(func() error { called = true; return nil }, nil)
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "yahoo", openErr.Name)
	assert.False(t, called)

	clock.Advance(time.Minute)
	require.NoError(t, cb.Call(ok, nil))
	assert.Equal(t, StateClosed, cb.GetState())
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("bybit", CircuitBreakerConfig{FailureThreshold: 1, Timeout: time.Second})
	cb.now = clock.Now

	cb.Call(failing, nil)
	clock.Advance(time.Second)
	cb.Call(failing, nil)
	assert.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_IgnoresUncountedErrors(t *testing.T) {
	cb := NewCircuitBreaker("csv", CircuitBreakerConfig{FailureThreshold: 1})
	notCounted := func(error) bool { return false }

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(failing, notCounted), errUpstream)
	}
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestRateLimiter_Refill(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter("yahoo", 2, 4)
	rl.now = clock.Now

	assert.Equal(t, "yahoo", rl.Name())
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	clock.Advance(250 * time.Millisecond)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	clock.Advance(time.Hour)
	assert.InDelta(t, 2.0, rl.Tokens(), 1e-9)
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter("slow", 1, 0.001)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	assert.Error(t, rl.Wait(ctx))
	assert.Less(t, time.Since(start), time.Second)

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	assert.ErrorIs(t, rl.Wait(cancelled), context.Canceled)
}

func TestRateLimiter_WaitBlocksUntilRefill(t *testing.T) {
	rl := NewRateLimiter("fast", 1, 50)
	require.True(t, rl.Allow())

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
