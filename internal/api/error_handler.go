package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to a status code and a stable reason code.
//   - Logs infrastructure and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"detail": "<reason>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router) and reason codes
	// chosen by handlers.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logError(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusBadRequest, "LOGIN_BAD_CREDENTIALS"
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusBadRequest, "LOGIN_USER_NOT_VERIFIED"
	case errors.Is(err, domain.ErrBadOTP):
		return http.StatusBadRequest, "Invalid OTP"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "REGISTER_USER_ALREADY_EXISTS"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, "VERIFY_USER_ALREADY_VERIFIED"
	case errors.Is(err, domain.ErrBadToken):
		return http.StatusBadRequest, "BAD_TOKEN"
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusBadRequest, "INVALID_PASSWORD: " + err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, domain.ErrPokemonNotFound):
		return http.StatusNotFound, "Pokemon not found"
	case errors.Is(err, domain.ErrInvalidPokemon):
		return http.StatusUnprocessableEntity, "Invalid pokemon name"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUpload):
		logError(log, c, err)
		return http.StatusInternalServerError, "Failed to store file on FTP server"
	case errors.Is(err, domain.ErrMailDelivery):
		logError(log, c, err)
		return http.StatusInternalServerError, "Failed to send mail"
	case errors.Is(err, domain.ErrUpstream):
		logError(log, c, err)
		return http.StatusBadGateway, "PokeAPI unavailable"
	}

	// Store outages and anything unexpected: log the real cause, return a
	// generic message.
	logError(log, c, err)
	return http.StatusInternalServerError, "internal server error"
}

func logError(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Bool("store_unavailable", errors.Is(err, domain.ErrStoreUnavailable)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
}
