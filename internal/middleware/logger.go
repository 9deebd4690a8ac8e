package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// WithLogger stores log in each request context so handlers and
// middleware reach it through zerolog.Ctx.
func WithLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(log.WithContext(req.Context())))
			return next(c)
		}
	}
}
