package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/2gazb/BargainDrivingServer/internal/token"
)

// Context keys populated by the middleware in this package.
const (
	ClaimsKey      = "claims"       // token.AccessClaims of the verified bearer token
	CurrentUserKey = "current_user" // model.User resolved by CredentialAuth
)

// JWTAuth returns an Echo middleware that verifies a Bearer access
// token and stores its claims in the request context under ClaimsKey.
// Verification is entirely local: signature plus embedded expiration,
// no credential store read.  Missing, malformed, tampered and expired
// tokens all short-circuit with 401 before the handler runs.
func JWTAuth(verifier *token.Signer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := verifier.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": reasonFor(err)})
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// reasonFor translates codec errors into response reasons without
// leaking anything beyond the failure class.
func reasonFor(err error) string {
	switch err {
	case token.ErrTokenExpired:
		return "token expired"
	case token.ErrMalformedToken:
		return "malformed token"
	default:
		return "invalid token"
	}
}

// CurrentClaims returns the access claims stored by JWTAuth.  The
// boolean reports whether the request actually passed through it.
func CurrentClaims(c echo.Context) (token.AccessClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(token.AccessClaims)
	return claims, ok
}
