package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Me returns the current user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userRead
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	full, err := h.accounts.Get(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserRead(full))
}

// UpdateMe changes the current user's e-mail or password.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userUpdateRequest  true  "Fields to change"
// @Success      200   {object}  userRead
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req userUpdateRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.accounts.Update(c.Request().Context(), user, domain.UserUpdate{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return echo.NewHTTPError(http.StatusBadRequest, "UPDATE_USER_EMAIL_ALREADY_EXISTS")
		}
		return invalidPassword(err, "UPDATE_USER_INVALID_PASSWORD")
	}
	return c.JSON(http.StatusOK, toUserRead(updated))
}

// Get returns any user. Superusers only.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userRead
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserRead(user))
}

// Delete removes a user. Superusers only.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.accounts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
