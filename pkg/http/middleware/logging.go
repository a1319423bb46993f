package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "MarketBoard/pkg/logger"
)

// RequestLogging logs one structured line per request.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("route", routeLabel(c)),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote_ip", c.RealIP()),
				applogger.Int("status", res.Status),
				applogger.Int64("bytes", res.Size),
				applogger.Duration("latency_ms", time.Since(start)),
			}
			if l != nil {
				switch {
				case res.Status >= 500:
					l.Error("http request", append(fields, applogger.Error(err))...)
				case res.Status >= 400:
					l.Warn("http request", fields...)
				default:
					l.Debug("http request", fields...)
				}
			}
			return nil
		}
	}
}
