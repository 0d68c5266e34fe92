package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/2gazb/BargainDrivingServer/internal/model"
)

// RequireRole returns a middleware that enforces that the caller's role
// (taken from the verified access claims, never from storage) is in the
// allowed set.  Privilege failures respond with 401, not 403 — clients
// were built against that contract and treat both as "re-authenticate".
// It assumes JWTAuth ran earlier in the chain.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentClaims(c)
			if !ok || !allowed[claims.Role()] {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
