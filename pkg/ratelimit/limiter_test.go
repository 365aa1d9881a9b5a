package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(t *testing.T, limit int) (*SlidingWindowLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewSlidingWindowLimiter(limit, time.Minute)
	l.now = clock.now
	t.Cleanup(l.Close)
	return l, clock
}

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLimiter(t, 2)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "ip:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, l.RetryAfter("ip:10.0.0.1"))

	other, err := l.Allow(ctx, "ip:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other, "keys are limited independently")

	clock.t = clock.t.Add(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSlidingWindowLimiter_ResetAndSweep(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLimiter(t, 1)

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")
	require.NoError(t, l.Reset(ctx, "a"))

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)

	clock.t = clock.t.Add(2 * time.Minute)
	l.sweep()
	assert.Empty(t, l.windows)
}

func TestSlidingWindowLimiter_CancelledContext(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Allow(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
