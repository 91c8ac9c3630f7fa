package middleware

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"pethub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLimiter allows the first limit hits per key within the process
// lifetime; good enough for middleware behavior tests.
type countingLimiter struct {
	counts map[string]int
	err    error
}

func newCountingLimiter() *countingLimiter {
	return &countingLimiter{counts: make(map[string]int)}
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}

	l.counts[key]++

	return l.counts[key] <= limit, nil
}

func rateLimitConfig(enabled bool, limit int) *config.Config {
	cfg := &config.Config{}
	cfg.RateLimit = &config.RateLimitConfig{
		Enabled: enabled,
		Limit:   limit,
		Window:  time.Minute,
	}

	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	limiter := newCountingLimiter()
	m := NewRateLimitMiddleware(limiter, rateLimitConfig(false, 1), discardLogger())

	for i := 0; i < 5; i++ {
		err := m.Throttle(okHandler)(newTestContext(""))
		require.NoError(t, err)
	}
	assert.Empty(t, limiter.counts)
}

func TestRateLimitMiddleware_NilLimiter(t *testing.T) {
	m := NewRateLimitMiddleware(nil, rateLimitConfig(true, 1), discardLogger())

	err := m.Throttle(okHandler)(newTestContext(""))
	require.NoError(t, err)
}

func TestRateLimitMiddleware_OverLimit(t *testing.T) {
	m := NewRateLimitMiddleware(newCountingLimiter(), rateLimitConfig(true, 2), discardLogger())

	require.NoError(t, m.Throttle(okHandler)(newTestContext("")))
	require.NoError(t, m.Throttle(okHandler)(newTestContext("")))

	err := m.Throttle(okHandler)(newTestContext(""))
	require.Error(t, err)
	assert.Equal(t, "RATE_LIMITED", errorCodeOf(t, err))
}

func TestRateLimitMiddleware_FailsOpenOnCounterError(t *testing.T) {
	limiter := newCountingLimiter()
	limiter.err = assert.AnError
	m := NewRateLimitMiddleware(limiter, rateLimitConfig(true, 1), discardLogger())

	for i := 0; i < 3; i++ {
		err := m.Throttle(okHandler)(newTestContext(""))
		require.NoError(t, err)
	}
}
