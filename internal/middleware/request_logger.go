package middleware

import (
	"time"

	"menuhub/internal/common"
	"menuhub/internal/logging"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger attaches base to every request context with a request id and
// writes one access log line per request.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)

			ctx := base.WithContext(req.Context())
			ctx = logging.WithRequestID(ctx, requestID)
			ctx = common.WithRequestID(ctx, requestID)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logging.FromContext(c.Request().Context()).Info().
				Str("method", req.Method).
				Str("route", c.Path()).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("request handled")
			return nil
		}
	}
}
