package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

// dummyHash is compared against when the e-mail is unknown so a failed
// lookup costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("battle-api-dummy-password"), bcrypt.DefaultCost)

// UserService manages accounts. It is also the credential store consulted by
// the login flow.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	queue  ports.NotificationQueue
	reset  *ActionTokens
	verify *ActionTokens
	now    func() time.Time
	log    zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	queue ports.NotificationQueue,
	reset, verify *ActionTokens,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:  users,
		roles:  roles,
		queue:  queue,
		reset:  reset,
		verify: verify,
		now:    time.Now,
		log:    log,
	}
}

// Authenticate checks creds against the stored bcrypt hash. A nil user with
// a nil error means the pair does not match any account.
func (s *UserService) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(creds.Username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, nil
	}
	return user, nil
}

// Register creates an active, unverified account with the default role.
func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		IsActive:     true,
		RoleID:       domain.DefaultRoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return s.withRole(ctx, created), nil
}

// Get returns a user with its role resolved.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRole(ctx, user), nil
}

// Update applies a profile change. A new e-mail clears the verified flag.
func (s *UserService) Update(ctx context.Context, user *domain.User, upd domain.UserUpdate) (*domain.User, error) {
	next := *user
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != next.Email {
			next.Email = email
			next.IsVerified = false
		}
	}
	if upd.Password != nil {
		if err := ValidatePassword(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		next.PasswordHash = string(hash)
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, &next); err != nil {
		return nil, err
	}
	return s.withRole(ctx, &next), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ForgotPassword mails a reset token to an active account. Unknown addresses
// are ignored so the endpoint cannot be used to probe for accounts.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, err := s.reset.Issue(user.ID, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	s.notify(ports.Notification{Kind: ports.NotifyResetPassword, To: user.Email, Token: token})
	return nil
}

// ResetPassword sets a new password using a token from ForgotPassword. The
// token stops working as soon as the password changes.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	subject, check, err := s.reset.Parse(token)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrBadToken
		}
		return err
	}
	if !user.IsActive {
		return domain.ErrBadToken
	}
	if err := check(user.PasswordHash); err != nil {
		return err
	}

	if _, err := s.Update(ctx, user, domain.UserUpdate{Password: &password}); err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// RequestVerification mails a verification token to an active, unverified
// account. Everything else is silently ignored.
func (s *UserService) RequestVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive || user.IsVerified {
		return nil
	}

	token, err := s.verify.Issue(user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	s.notify(ports.Notification{Kind: ports.NotifyVerifyEmail, To: user.Email, Token: token})
	return nil
}

// Verify marks the account behind token as verified.
func (s *UserService) Verify(ctx context.Context, token string) (*domain.User, error) {
	subject, check, err := s.verify.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrBadToken
		}
		return nil, err
	}
	if err := check(user.Email); err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}

	user.IsVerified = true
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user verified")
	return s.withRole(ctx, user), nil
}

// withRole attaches the user's role. Lookup failures leave Role nil.
func (s *UserService) withRole(ctx context.Context, user *domain.User) *domain.User {
	if s.roles == nil || user.RoleID == 0 {
		return user
	}
	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		s.log.Warn().Err(err).Int("role_id", user.RoleID).Msg("role lookup failed")
		return user
	}
	user.Role = role
	return user
}

func (s *UserService) notify(n ports.Notification) {
	if err := s.queue.Enqueue(n); err != nil {
		s.log.Error().Err(err).Str("kind", string(n.Kind)).Msg("notification not queued")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
