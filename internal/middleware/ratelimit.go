// Package middleware holds HTTP middleware for the companion service.
package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

// UpstreamGuard rate-limits per client IP the routes that can trigger
// outbound metadata calls. The OMDb free tier carries a daily quota, so one
// noisy client must not burn it for everyone.
type UpstreamGuard struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewUpstreamGuard creates the limiter. limit requests per window per IP.
func NewUpstreamGuard(rdb *redis.Client, limit int, window time.Duration) *UpstreamGuard {
	return &UpstreamGuard{rdb: rdb, limit: limit, window: window}
}

// Handler returns the Fiber middleware. Redis outages fail open: serving an
// unthrottled request beats refusing all of them.
func (g *UpstreamGuard) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := context.Background()
		key := "upstream_guard:" + c.IP()

		count, err := g.rdb.Incr(ctx, key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			g.rdb.Expire(ctx, key, g.window)
		}

		ttl, _ := g.rdb.TTL(ctx, key).Result()
		remaining := int64(g.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(g.limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if count > int64(g.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": int(ttl.Seconds()),
			})
		}

		return c.Next()
	}
}
