package middleware

import (
	"net/http"
	"strings"

	"menuhub/internal/common"
	"menuhub/internal/logging"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenContextKey = "user"

// JWTMiddleware validates HS256 bearer tokens and resolves the tenant from
// tenantClaim. Requests whose token carries no tenant are rejected.
func JWTMiddleware(jwtSecret, tenantClaim string) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(jwtSecret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenContextKey,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			tenantID, _ := claims[tenantClaim].(string)
			tenantID = strings.TrimSpace(tenantID)
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing tenant in token")
			}

			setTenant(c, tenantID)
			return next(c)
		})
	}
}

// TenantFromParam resolves the tenant from a path parameter, as the public
// storefront checkout does.
func TenantFromParam(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := strings.TrimSpace(c.Param(param))
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant")
			}
			setTenant(c, tenantID)
			return next(c)
		}
	}
}

func setTenant(c echo.Context, tenantID string) {
	ctx := common.WithTenantID(c.Request().Context(), tenantID)
	ctx = logging.WithTenantID(ctx, tenantID)
	c.SetRequest(c.Request().WithContext(ctx))
}
