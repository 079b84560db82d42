package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/api/metrics"
	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

const defaultOTPTTL = 300 * time.Second

// LoginOptions tunes a LoginService.
type LoginOptions struct {
	OTPTTL              time.Duration
	RequireVerification bool
}

// LoginService orchestrates the two-step login: credentials first, then the
// one-time password mailed to the account. It keeps no state between the
// two requests; the OTP cache is the only link.
type LoginService struct {
	creds  ports.CredentialStore
	otps   ports.OTPGenerator
	cache  ports.OTPCache
	queue  ports.NotificationQueue
	issuer ports.SessionIssuer
	otpTTL time.Duration
	verify bool
	log    zerolog.Logger
}

func NewLoginService(
	creds ports.CredentialStore,
	otps ports.OTPGenerator,
	cache ports.OTPCache,
	queue ports.NotificationQueue,
	issuer ports.SessionIssuer,
	opts LoginOptions,
	log zerolog.Logger,
) *LoginService {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = defaultOTPTTL
	}
	return &LoginService{
		creds:  creds,
		otps:   otps,
		cache:  cache,
		queue:  queue,
		issuer: issuer,
		otpTTL: opts.OTPTTL,
		verify: opts.RequireVerification,
		log:    log,
	}
}

// SubmitLogin checks the credentials and, when they are good, stores a fresh
// OTP for the user and queues it for delivery. The returned attempt is in
// the otp_pending state on success and rejected otherwise.
func (s *LoginService) SubmitLogin(ctx context.Context, creds domain.Credentials) (*domain.LoginAttempt, error) {
	attempt := domain.NewLoginAttempt(creds)

	user, err := s.checkCredentials(ctx, attempt)
	if err != nil {
		recordLogin("submit", err)
		return attempt, err
	}

	code, err := s.otps.Generate(user.ID)
	if err != nil {
		recordLogin("submit", err)
		return attempt, attempt.Reject(err)
	}
	if err := s.cache.Put(ctx, user.ID, code, s.otpTTL); err != nil {
		recordLogin("submit", err)
		return attempt, attempt.Reject(err)
	}
	metrics.OTPIssuedTotal.Inc()

	// Delivery happens in the background. A full queue only means the user
	// has to ask for a new code.
	if err := s.queue.Enqueue(ports.Notification{Kind: ports.NotifyOTP, To: user.Email, OTP: code}); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("otp notification not queued")
	}

	if err := attempt.MoveTo(domain.LoginOTPPending); err != nil {
		return attempt, attempt.Reject(err)
	}
	recordLogin("submit", nil)
	s.log.Info().Str("user_id", user.ID).Msg("otp issued")
	return attempt, nil
}

// VerifyOTP re-checks the credentials, consumes the pending OTP and issues a
// session. A code is accepted at most once.
func (s *LoginService) VerifyOTP(ctx context.Context, creds domain.Credentials, otp string) (*domain.Session, error) {
	attempt := domain.NewLoginAttempt(creds)

	user, err := s.checkCredentials(ctx, attempt)
	if err != nil {
		recordLogin("verify", err)
		return nil, err
	}

	if err := attempt.MoveTo(domain.LoginOTPPending); err != nil {
		return nil, attempt.Reject(err)
	}

	ok, err := s.cache.VerifyAndConsume(ctx, user.ID, otp)
	if err != nil {
		recordLogin("verify", err)
		return nil, attempt.Reject(err)
	}
	if !ok {
		recordLogin("verify", domain.ErrBadOTP)
		s.log.Warn().Str("user_id", user.ID).Msg("otp rejected")
		return nil, attempt.Reject(domain.ErrBadOTP)
	}

	session, err := s.issuer.Login(ctx, user)
	if err != nil {
		recordLogin("verify", err)
		return nil, attempt.Reject(err)
	}
	if err := attempt.MoveTo(domain.LoginAuthenticated); err != nil {
		return nil, attempt.Reject(err)
	}
	recordLogin("verify", nil)
	return session, nil
}

// Logout ends the session behind token.
func (s *LoginService) Logout(ctx context.Context, token string) error {
	return s.issuer.Logout(ctx, token)
}

func (s *LoginService) checkCredentials(ctx context.Context, attempt *domain.LoginAttempt) (*domain.User, error) {
	user, err := s.creds.Authenticate(ctx, attempt.Credentials)
	if err != nil {
		return nil, attempt.Reject(err)
	}
	if user == nil || !user.IsActive {
		return nil, attempt.Reject(domain.ErrBadCredentials)
	}
	if s.verify && !user.IsVerified {
		return nil, attempt.Reject(domain.ErrNotVerified)
	}
	if err := attempt.MoveTo(domain.LoginCredentialsChecked); err != nil {
		return nil, attempt.Reject(err)
	}
	return user, nil
}

func recordLogin(step string, err error) {
	result := "error"
	switch {
	case err == nil && step == "submit":
		result = "otp_pending"
	case err == nil:
		result = "authenticated"
	case errors.Is(err, domain.ErrBadCredentials):
		result = "bad_credentials"
	case errors.Is(err, domain.ErrNotVerified):
		result = "not_verified"
	case errors.Is(err, domain.ErrBadOTP):
		result = "bad_otp"
	}
	metrics.LoginAttemptsTotal.WithLabelValues(step, result).Inc()
}
