package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/api/middleware"
	"github.com/pokebattle/battle-api/internal/core/domain"
)

// currentUser returns the user injected by the Auth middleware. Presence
// proves the middleware ran.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUser).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func currentToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.ContextToken).(string)
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	return token, nil
}
