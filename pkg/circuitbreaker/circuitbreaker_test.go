package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestBreaker(t *testing.T) (*CircuitBreaker, *clock, *[]string) {
	t.Helper()
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	var transitions []string
	cb := New(Settings{
		Name:             "files",
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	cb.now = c.Now
	return cb, c, &transitions
}

func fail() error { return errBoom }
func ok() error   { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _, _ := newTestBreaker(t)

	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb, _, _ := newTestBreaker(t)

	require.Error(t, cb.Execute(fail))
	require.NoError(t, cb.Execute(ok))
	require.Error(t, cb.Execute(fail))

	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenTrial(t *testing.T) {
	cb, c, transitions := newTestBreaker(t)

	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))

	c.now = c.now.Add(time.Minute)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.Error(t, cb.Execute(fail))
	assert.Equal(t, StateOpen, cb.State(), "a failed trial reopens the breaker")

	c.now = c.now.Add(time.Minute)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{
		"closed->open",
		"open->half-open",
		"half-open->open",
		"open->half-open",
		"half-open->closed",
	}, *transitions)
}

func TestCancellationIsNotAFailure(t *testing.T) {
	cb, _, _ := newTestBreaker(t)

	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return context.Canceled })
		assert.ErrorIs(t, err, context.Canceled)
	}

	assert.Equal(t, StateClosed, cb.State())
}

func TestPanicCountsAsFailure(t *testing.T) {
	cb, _, _ := newTestBreaker(t)

	for i := 0; i < 2; i++ {
		assert.Panics(t, func() {
			cb.Execute(func() error { panic("boom") })
		})
	}

	assert.Equal(t, StateOpen, cb.State())
}
