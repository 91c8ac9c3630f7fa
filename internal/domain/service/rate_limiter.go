package service

import (
	"context"
	"time"
)

// RateLimiter counts requests per key over a fixed window in an external
// store, so throttling survives restarts and spans instances. It carries
// no correctness requirement for authorization.
type RateLimiter interface {
	// Allow records one hit for key and reports whether the key is still
	// within limit for the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
