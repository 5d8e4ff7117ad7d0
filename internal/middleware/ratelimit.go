package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rrijambi/station-backend/internal/config"
)

// windowScript implements a fixed-window counter: the first hit in a window
// creates the key with an expiry, later hits increment it. Returns the
// count and the remaining window in milliseconds.
var windowScript = redis.NewScript(`
	local key = KEYS[1]
	local window_ms = tonumber(ARGV[1])
	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('PEXPIRE', key, window_ms)
	end
	local ttl = redis.call('PTTL', key)
	if ttl < 0 then ttl = window_ms end
	return { count, ttl }
`)

// RateLimit enforces a per-client-IP fixed-window limit, used on the login
// endpoint. Redis being unavailable disables the limiter rather than the
// endpoint.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Prefix + ":" + c.Path() + ":" + c.RealIP()
			ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
			res, err := windowScript.Run(ctx, rdb, []string{key}, cfg.Window.Milliseconds()).Int64Slice()
			cancel()
			if err != nil || len(res) != 2 {
				// limiter trouble never blocks traffic
				return next(c)
			}
			count, ttlMS := res[0], res[1]
			if count > int64(cfg.Limit) {
				retryAfter := (ttlMS + 999) / 1000
				c.Response().Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
