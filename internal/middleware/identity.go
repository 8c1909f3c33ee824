package middleware

import "github.com/labstack/echo/v4"

// Actor returns the identity JWTAuth stored for the request, or "" for
// anonymous requests. Handlers record it as the author of changes.
func Actor(c echo.Context) string {
	s, _ := c.Get(CtxActor).(string)
	return s
}

// currentUserID returns the token subject, or "anon" on public routes.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
