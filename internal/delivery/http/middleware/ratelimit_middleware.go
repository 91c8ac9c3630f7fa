package middleware

import (
	"log/slog"

	"pethub/config"
	deliverycontext "pethub/internal/delivery/context"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles mutating auth endpoints per caller using
// the fixed-window limiter. Throttling is availability protection only:
// when the counter store is unreachable the middleware fails open, it
// never blocks an otherwise valid request on infrastructure trouble.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRateLimitMiddleware is the constructor for RateLimitMiddleware.
func NewRateLimitMiddleware(limiter service.RateLimiter, cfg *config.Config, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, cfg: cfg, logger: logger}
}

// Throttle enforces the configured per-caller limit. The key prefers the
// verified identity subject and falls back to the client IP for requests
// that have not passed Authenticate.
func (m *RateLimitMiddleware) Throttle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.limiter == nil || m.cfg.RateLimit == nil || !m.cfg.RateLimit.Enabled {
			return next(c)
		}

		key := c.RealIP()
		if identity, err := CurrentIdentity(c); err == nil {
			key = identity.Subject
		}

		allowed, err := m.limiter.Allow(c.Request().Context(), key, m.cfg.RateLimit.Limit, m.cfg.RateLimit.Window)
		if err != nil {
			logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
			logger.Warn("Throttle counter unavailable, failing open",
				slog.String("key", key),
				slog.Any("error", err))

			return next(c)
		}

		if !allowed {
			return domainerrors.ErrRateLimited
		}

		return next(c)
	}
}
