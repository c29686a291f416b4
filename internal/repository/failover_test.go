package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubLimiter) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func TestFailover_UsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubLimiter{allowed: true}
	fallback := &stubLimiter{allowed: false}
	logger := zerolog.Nop()

	f := NewFailoverRateLimiter(primary, fallback, &logger)

	allowed, err := f.CheckRateLimit(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls)
}

func TestFailover_FallsBackOnPrimaryError(t *testing.T) {
	primary := &stubLimiter{err: errors.New("connection refused")}
	fallback := &stubLimiter{allowed: true}
	logger := zerolog.Nop()

	f := NewFailoverRateLimiter(primary, fallback, &logger)

	allowed, err := f.CheckRateLimit(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, fallback.calls)

	// Subsequent calls skip the broken primary entirely.
	_, err = f.CheckRateLimit(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, fallback.calls)
}

func TestFailover_RecoversAfterProbeWindow(t *testing.T) {
	primary := &stubLimiter{err: errors.New("down")}
	fallback := &stubLimiter{allowed: true}
	logger := zerolog.Nop()

	f := NewFailoverRateLimiter(primary, fallback, &logger)
	_, err := f.CheckRateLimit(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)

	// Pretend the outage started over a minute ago, then heal the primary.
	f.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())
	primary.err = nil
	primary.allowed = true

	allowed, err := f.CheckRateLimit(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.False(t, f.isDown.Load())
}
