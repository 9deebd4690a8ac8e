package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-listings/internal/config"
)

// NewRateLimiter limits each client to cfg.Limit requests per cfg.Window
// using a Redis counter per window.  Clients are keyed by token subject
// when mounted after JWTAuth and by IP otherwise.  Redis failures let the
// request through.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			window := now.Truncate(cfg.Window)
			key := cfg.Prefix + ":" + clientKey(c) + ":" + strconv.FormatInt(window.Unix(), 10)

			ctx := c.Request().Context()
			pipe := rdb.TxPipeline()
			incr := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, cfg.Window)
			if _, err := pipe.Exec(ctx); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("ratelimit: redis error")
				return next(c)
			}

			used := int(incr.Val())
			remaining := cfg.Limit - used
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if used > cfg.Limit {
				retry := int(window.Add(cfg.Window).Sub(now).Seconds()) + 1
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

// clientKey identifies the caller for rate limiting.
func clientKey(c echo.Context) string {
	if sub, ok := c.Get("user_id").(string); ok && sub != "" {
		return "user:" + sub
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
