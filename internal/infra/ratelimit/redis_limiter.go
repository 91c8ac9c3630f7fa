// Package ratelimit implements the fixed-window request throttle backed
// by Redis counters.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pethub/config"
	"pethub/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type redisLimiter struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisLimiter creates a Redis-backed fixed-window limiter. Returns
// nil when Redis is not configured; the middleware treats a nil limiter
// as throttling disabled.
func NewRedisLimiter(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) service.RateLimiter {
	if cfg.Redis == nil {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return &redisLimiter{
		client: client,
		logger: logger,
	}
}

// Allow counts the request against the key's current window and reports
// whether it stays within the limit. The counter key carries the window
// start so stale windows expire on their own.
func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	windowStart := time.Now().Truncate(window).Unix()
	counterKey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, counterKey)
	pipe.Expire(ctx, counterKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "failed to update throttle counter")
	}

	if count.Val() > int64(limit) {
		l.logger.Debug("Request throttled",
			slog.String("key", key),
			slog.Int64("count", count.Val()),
			slog.Int("limit", limit))

		return false, nil
	}

	return true, nil
}
