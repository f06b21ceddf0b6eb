package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit limits requests per client IP with a fixed window counter in
// Redis. INCR and EXPIRE run in one pipeline; the window starts on the first
// request. A Redis failure lets the request through rather than taking the
// endpoint down with it.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:" + c.RealIP()
			ctx := c.Request().Context()

			pipe := client.Pipeline()
			incr := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, window)
			if _, err := pipe.Exec(ctx); err != nil {
				return next(c)
			}

			if incr.Val() > int64(maxRequests) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
