package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ActorKey = "actor"
	TokenKey = "token"
)

// Auth resolves the bearer token through the auth service and injects the
// caller as a ports.Actor under ActorKey. Revoked or expired tokens are
// rejected with 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := auth.ParseToken(c.Request().Context(), parts[1])
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			case errors.Is(err, domain.ErrInvalidCredentials):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case err != nil:
				return err
			}

			c.Set(ActorKey, ports.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
			c.Set(TokenKey, parts[1])

			return next(c)
		}
	}
}
