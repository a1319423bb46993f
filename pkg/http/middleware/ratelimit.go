package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request keyed by client may proceed.
type Allower interface {
	Allow(key string, capacity int, refillPerSec float64) bool
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Capacity     int
	RefillPerSec float64
	// Only paths with one of these prefixes are limited; empty limits all.
	Prefixes []string
}

// RateLimit rejects requests with 429 once a client's bucket is empty.
func RateLimit(limiter Allower, cfg RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !matchesPrefix(c.Request().URL.Path, cfg.Prefixes) {
				return next(c)
			}
			if !limiter.Allow(c.RealIP(), cfg.Capacity, cfg.RefillPerSec) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": http.StatusText(http.StatusTooManyRequests),
					"data": []map[string]string{{
						"code":    "ERR_RATE_LIMITED",
						"message": "rate limit exceeded",
					}},
				})
			}
			return next(c)
		}
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
