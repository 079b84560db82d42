package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/api/metrics"
)

// Metrics observes request duration per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the final status first.
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
