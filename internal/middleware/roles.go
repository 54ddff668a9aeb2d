package middleware

import (
	"net/http"

	"unistay/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route on the session role claim. Roles are assigned at
// sign-in from configuration, not hardcoded identities.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetSubjectFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			got, ok := common.GetRoleFromContext(ctx)
			if !ok || got != role {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
			}
			return next(c)
		}
	}
}
