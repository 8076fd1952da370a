package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/soundhaven/account-service/internal/config"
)

// RateLimit returns a fixed-window request limiter backed by Redis,
// keyed by client IP and route.  Counting and window arming run inside a
// single Lua script so the counter and its TTL can never diverge: the
// script increments the key and, whenever the key has no expiry (first
// hit of a window, or a key that lost its TTL), arms it with the window
// length.  Once the counter passes cfg.Max the request is rejected with
// 429 and a Retry-After hint derived from the remaining TTL.  When the
// limiter is disabled, Redis is unavailable or the script call fails,
// requests pass through unthrottled.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	// Returns {count, ttl_seconds}.  TTL < 0 means the key exists without
	// an expiry; re-arming it here keeps a half-written window from
	// blocking the caller until someone deletes the key by hand.
	windowScript := redis.NewScript(`
		local n = redis.call('INCR', KEYS[1])
		local ttl = redis.call('TTL', KEYS[1])
		if ttl < 0 then
			redis.call('EXPIRE', KEYS[1], ARGV[1])
			ttl = tonumber(ARGV[1])
		end
		return { n, ttl }
	`)

	windowSecs := int64(cfg.Window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.RealIP(), c.Path())
			ctx := c.Request().Context()

			vals, err := windowScript.Run(ctx, rdb, []string{key}, windowSecs).Result()
			if err != nil {
				return next(c) // fail open
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 2 {
				return next(c)
			}
			n, _ := arr[0].(int64)
			ttl, _ := arr[1].(int64)

			remaining := int64(cfg.Max) - n
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(cfg.Max) {
				secs := ttl
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.FormatInt(secs, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
