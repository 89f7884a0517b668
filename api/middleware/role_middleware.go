package middleware

import (
	"net/http"

	"shopadmin/internal/entity"

	"github.com/labstack/echo/v4"
)

// RequireAdmin is the second stage of the gate. The role check lives here
// and nowhere else; handlers never inspect the role themselves.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := RoleFromContext(c)
		if !ok || entity.UserRole(role) != entity.UserRoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
