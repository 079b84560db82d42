package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

// CookieConfig describes the session cookie set on successful login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	login    ports.LoginService
	accounts ports.AccountService
	cookie   CookieConfig
}

func NewAuthHandler(login ports.LoginService, accounts ports.AccountService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{login: login, accounts: accounts, cookie: cookie}
}

// Login checks the credentials and mails a one-time password.
//
// @Summary      Start a two-factor login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Account e-mail"
// @Param        password  formData  string  true  "Password"
// @Success      202  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form credentialsForm
	if err := c.Bind(&form); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	creds := domain.Credentials{Username: form.Username, Password: form.Password}
	if _, err := h.login.SubmitLogin(c.Request().Context(), creds); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "2FA verification required"})
}

// VerifyOTP completes the login with the mailed code.
//
// @Summary      Complete a two-factor login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Account e-mail"
// @Param        password  formData  string  true  "Password"
// @Param        otp       formData  string  true  "One-time password"
// @Success      200  {object}  tokenResponse
// @Failure      400  {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var form verifyOTPForm
	if err := c.Bind(&form); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	creds := domain.Credentials{Username: form.Username, Password: form.Password}
	session, err := h.login.VerifyOTP(c.Request().Context(), creds, form.OTP)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: session.Token, TokenType: session.TokenType})
}

// Logout revokes the current session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := currentToken(c)
	if err != nil {
		return err
	}
	if err := h.login.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userRead
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return invalidPassword(err, "REGISTER_INVALID_PASSWORD")
	}
	return c.JSON(http.StatusCreated, toUserRead(user))
}

// ForgotPassword mails a reset token when the account exists.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Param        body  body  emailRequest  true  "Account e-mail"
// @Success      202
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.accounts.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Param        body  body  resetPasswordRequest  true  "Token and new password"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.accounts.ResetPassword(c.Request().Context(), req.Token, req.Password)
	switch {
	case err == nil:
		return c.NoContent(http.StatusOK)
	case errors.Is(err, domain.ErrBadToken):
		return echo.NewHTTPError(http.StatusBadRequest, "RESET_PASSWORD_BAD_TOKEN")
	default:
		return invalidPassword(err, "RESET_PASSWORD_INVALID_PASSWORD")
	}
}

// RequestVerifyToken mails a verification token to an unverified account.
//
// @Summary      Request an e-mail verification token
// @Tags         auth
// @Accept       json
// @Param        body  body  emailRequest  true  "Account e-mail"
// @Success      202
// @Router       /auth/request-verify-token [post]
func (h *AuthHandler) RequestVerifyToken(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.accounts.RequestVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// Verify marks the account behind a verification token as verified.
//
// @Summary      Verify e-mail
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Verification token"
// @Success      200   {object}  userRead
// @Failure      400   {object}  map[string]string
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.accounts.Verify(c.Request().Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrBadToken) {
			return echo.NewHTTPError(http.StatusBadRequest, "VERIFY_USER_BAD_TOKEN")
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserRead(user))
}

// invalidPassword turns a password rule failure into the reason code of the
// calling endpoint. Other errors pass through unchanged.
func invalidPassword(err error, code string) error {
	if errors.Is(err, domain.ErrInvalidPassword) {
		return echo.NewHTTPError(http.StatusBadRequest, code+": "+err.Error())
	}
	return err
}
