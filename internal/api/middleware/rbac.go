package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// RequireSuperuser lets only superusers through. It must run after Auth.
func RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextUser).(*domain.User)
			if user == nil {
				return domain.ErrUnauthorized
			}
			if !user.IsSuperuser {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
