package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// RBAC admits only callers whose token role is one of roles. Mount it after
// Auth; a request without claims is treated as having no role.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			for _, r := range roles {
				if domain.Role(role) == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}

// AdminOnly guards the approval queue and the cross-account listings.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
