package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUser  = "user"
	ContextToken = "token"
)

// Auth resolves the session token from the Authorization header, or from
// cookieName when the header is absent, and injects the user into context.
func Auth(sessions ports.SessionAuthenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c, cookieName)
			if err != nil {
				return err
			}

			user, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(ContextUser, user)
			c.Set(ContextToken, token)
			return next(c)
		}
	}
}

// extractToken prefers a Bearer Authorization header. Any other scheme (the
// FTP export sends Basic credentials) falls back to the session cookie.
func extractToken(c echo.Context, cookieName string) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], nil
		}
	}

	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
}
