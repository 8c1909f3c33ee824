package middleware // middleware holds the HTTP middleware shared by the API routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id"
	CtxActor  = "actor"
	CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores its subject, actor (e-mail, else subject) and role in the
// request context. Tokens are issued by the identity provider; only the
// shared secret is needed here.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if claims.Actor() == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxActor, claims.Actor())
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}
