package ports

import (
	"context"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// LoginService drives the two-factor login flow.
type LoginService interface {
	SubmitLogin(ctx context.Context, creds domain.Credentials) (*domain.LoginAttempt, error)
	VerifyOTP(ctx context.Context, creds domain.Credentials, otp string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// AccountService covers registration, profile management, password reset
// and e-mail verification.
type AccountService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	RequestVerification(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// SessionAuthenticator resolves a session token to its active user.
type SessionAuthenticator interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}
