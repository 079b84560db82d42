package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

// SessionService mints bearer tokens backed by a server-side session record.
// A token is accepted only while its record exists, so logout revokes it
// before it expires.
type SessionService struct {
	store  ports.SessionStore
	users  ports.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewSessionService(store ports.SessionStore, users ports.UserRepository, secret string, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionService{
		store:  store,
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

// Login issues a new session for user.
func (s *SessionService) Login(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   user.ID,
		Audience:  jwt.ClaimStrings{AudienceAuth},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := s.store.Save(ctx, jti, user.ID, s.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("jti", jti).Msg("session issued")
	return &domain.Session{
		Token:     token,
		TokenType: domain.TokenTypeBearer,
		UserID:    user.ID,
		ExpiresAt: expires,
	}, nil
}

// Logout revokes the session behind token.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Info().Str("user_id", claims.Subject).Str("jti", claims.ID).Msg("session revoked")
	return nil
}

// Resolve returns the active user owning token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	userID, err := s.store.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.Subject {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (s *SessionService) parse(token string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	if err := parseHS256(token, &claims, s.secret, AudienceAuth, s.now); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return &claims, nil
}
