package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Staff roles carried in the "role" claim.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleReader     = "reader"
)

// ViewRoles may read reservations and availability.
var ViewRoles = []string{RoleSuperadmin, RoleAdmin, RoleEditor, RoleReader}

// EditRoles may also create and edit reservations.
var EditRoles = []string{RoleSuperadmin, RoleAdmin, RoleEditor}

// RequireRole returns a middleware that lets the request through only when
// the role stored by JWTAuth is one of roles; otherwise it answers 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
