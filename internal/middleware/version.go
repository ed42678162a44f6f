package middleware

import (
	"github.com/labstack/echo/v4"
)

const APIVersionHeader = "X-API-Version"

// VersionHeader stamps every response with the API version that served it.
func VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(APIVersionHeader, version)
			return next(c)
		}
	}
}

// VersionRoute mounts a group at /<version>, e.g. /v1/orders, whose
// responses carry APIVersionHeader.
func VersionRoute(e *echo.Echo, version string) *echo.Group {
	g := e.Group("/" + version)
	g.Use(VersionHeader(version))
	return g
}
