package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Limiter hands out tokens per key.
type Limiter interface {
	Allow(key string, capacity, refillPerSec float64) bool
}

// RateLimit rejects requests once the caller's bucket is empty. Callers are keyed by real IP.
func RateLimit(l Limiter, capacity, refillPerSec float64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP(), capacity, refillPerSec) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": http.StatusText(http.StatusTooManyRequests),
				})
			}
			return next(c)
		}
	}
}
