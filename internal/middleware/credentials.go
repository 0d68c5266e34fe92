package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/2gazb/BargainDrivingServer/internal/repository"
	"github.com/2gazb/BargainDrivingServer/internal/utils"
)

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialAuth authenticates a request by the username/password pair
// in its JSON body and stores the matching user in the context under
// CurrentUserKey.  The admin login handler runs behind it and can
// assume the caller identity is already established.  Lookup misses
// and password mismatches produce the same 401 so that account
// existence is not leaked.
func CredentialAuth(users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var body credentialsBody
			if err := c.Bind(&body); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
			}
			body.Username = strings.TrimSpace(body.Username)
			if body.Username == "" || body.Password == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.FindByUsername(ctx, body.Username)
			if err != nil {
				if err == repository.ErrNotFound {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			if !utils.VerifyPassword(u.Password, body.Password) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}

			c.Set(CurrentUserKey, u)
			return next(c)
		}
	}
}
