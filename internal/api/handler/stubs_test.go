package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/api/middleware"
	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

type stubLoginService struct {
	submitFn func(ctx context.Context, creds domain.Credentials) (*domain.LoginAttempt, error)
	verifyFn func(ctx context.Context, creds domain.Credentials, otp string) (*domain.Session, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubLoginService) SubmitLogin(ctx context.Context, creds domain.Credentials) (*domain.LoginAttempt, error) {
	return s.submitFn(ctx, creds)
}

func (s *stubLoginService) VerifyOTP(ctx context.Context, creds domain.Credentials, otp string) (*domain.Session, error) {
	return s.verifyFn(ctx, creds, otp)
}

func (s *stubLoginService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

// stubAccountService panics on calls the test did not configure.
type stubAccountService struct {
	registerFn func(ctx context.Context, email, password string) (*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, user *domain.User, upd domain.UserUpdate) (*domain.User, error)
	deleteFn   func(ctx context.Context, id string) error
	forgotFn   func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, token, password string) error
	requestFn  func(ctx context.Context, email string) error
	verifyFn   func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAccountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) Update(ctx context.Context, user *domain.User, upd domain.UserUpdate) (*domain.User, error) {
	return s.updateFn(ctx, user, upd)
}

func (s *stubAccountService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAccountService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAccountService) ResetPassword(ctx context.Context, token, password string) error {
	return s.resetFn(ctx, token, password)
}

func (s *stubAccountService) RequestVerification(ctx context.Context, email string) error {
	return s.requestFn(ctx, email)
}

func (s *stubAccountService) Verify(ctx context.Context, token string) (*domain.User, error) {
	return s.verifyFn(ctx, token)
}

type stubBattleService struct {
	recordFn func(ctx context.Context, userID string, in ports.BattleLogInput) (*domain.BattleLog, error)
	mailFn   func(ctx context.Context, email string, in ports.BattleLogInput) (*domain.BattleLog, error)
}

func (s *stubBattleService) Record(ctx context.Context, userID string, in ports.BattleLogInput) (*domain.BattleLog, error) {
	return s.recordFn(ctx, userID, in)
}

func (s *stubBattleService) MailReport(ctx context.Context, email string, in ports.BattleLogInput) (*domain.BattleLog, error) {
	return s.mailFn(ctx, email, in)
}

type stubPokemonService struct {
	getFn    func(ctx context.Context, name string) (*domain.Pokemon, error)
	listFn   func(ctx context.Context, limit int) (json.RawMessage, error)
	exportFn func(ctx context.Context, creds ports.FTPCredentials, p *domain.Pokemon) error
}

func (s *stubPokemonService) Get(ctx context.Context, name string) (*domain.Pokemon, error) {
	return s.getFn(ctx, name)
}

func (s *stubPokemonService) List(ctx context.Context, limit int) (json.RawMessage, error) {
	return s.listFn(ctx, limit)
}

func (s *stubPokemonService) Export(ctx context.Context, creds ports.FTPCredentials, p *domain.Pokemon) error {
	return s.exportFn(ctx, creds, p)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newFormRequest(target, form string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func withUser(c echo.Context, u *domain.User) {
	c.Set(middleware.ContextUser, u)
	c.Set(middleware.ContextToken, "session-token")
}

func assertHTTPError(t *testing.T, err error, code int, detail string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
	if detail != "" && he.Message != detail {
		t.Fatalf("expected detail %q, got %v", detail, he.Message)
	}
}
