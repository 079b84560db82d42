package ports

import (
	"context"
	"time"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// SessionStore keeps the server-side record of issued session tokens so they
// can be revoked on logout.
type SessionStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	// Lookup returns the user id bound to tokenID, or domain.ErrUnauthorized
	// when the session is unknown or expired.
	Lookup(ctx context.Context, tokenID string) (string, error)
	Delete(ctx context.Context, tokenID string) error
}

// SessionIssuer mints and revokes authenticated sessions.
type SessionIssuer interface {
	Login(ctx context.Context, user *domain.User) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// CredentialStore validates a username/password pair. It returns a nil user
// and no error when the pair does not match.
type CredentialStore interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (*domain.User, error)
}
