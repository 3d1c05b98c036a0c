package middleware

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/marketplace-api/internal/config"
)

// NewLoginRateLimit returns a fixed-window per-IP limiter backed by Redis,
// intended for the login endpoint to slow down credential guessing.  The
// window is a Redis counter with an expiry: the first attempt in a window
// creates the key, subsequent attempts increment it, and requests are
// rejected once the counter exceeds the limit.  Redis errors fail open so
// the limiter never takes logins down with it.
func NewLoginRateLimit(cfg config.LoginRateConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := cfg.Prefix + ":" + c.RealIP()
            ctx := c.Request().Context()

            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                return next(c)
            }
            if n == 1 {
                _ = rdb.Expire(ctx, key, cfg.Window).Err()
            }

            remaining := int64(cfg.Limit) - n
            if remaining < 0 {
                remaining = 0
            }
            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if n > int64(cfg.Limit) {
                retry, err := rdb.TTL(ctx, key).Result()
                if err == nil && retry > 0 {
                    c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
                }
                return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "Too many login attempts"})
            }
            return next(c)
        }
    }
}
