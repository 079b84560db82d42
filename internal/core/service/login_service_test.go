package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

type loginFixture struct {
	repo   *stubUserRepo
	cache  *memoryOTPCache
	queue  *stubQueue
	issuer *stubIssuer
	svc    *LoginService
}

func newLoginFixture(requireVerification bool) *loginFixture {
	repo := newStubUserRepo()
	repo.addUser("u1", "ash@example.com", "pikachu1!", true, true)
	repo.addUser("u2", "misty@example.com", "starmie1!", false, true)
	repo.addUser("u3", "brock@example.com", "onix123!", true, false)

	f := &loginFixture{
		repo:   repo,
		cache:  newMemoryOTPCache(),
		queue:  &stubQueue{},
		issuer: &stubIssuer{},
	}
	users := NewUserService(repo, stubRoleRepo{}, f.queue, nil, nil, zerolog.Nop())
	f.svc = NewLoginService(users, stubOTPGenerator{code: "123456"}, f.cache, f.queue, f.issuer,
		LoginOptions{RequireVerification: requireVerification}, zerolog.Nop())
	return f
}

func ash() domain.Credentials {
	return domain.Credentials{Username: "ash@example.com", Password: "pikachu1!"}
}

func TestLoginService_SubmitLogin_IssuesOTP(t *testing.T) {
	f := newLoginFixture(false)

	attempt, err := f.svc.SubmitLogin(context.Background(), ash())
	if err != nil {
		t.Fatalf("SubmitLogin: %v", err)
	}
	if attempt.State != domain.LoginOTPPending {
		t.Fatalf("expected otp_pending, got %s", attempt.State)
	}
	if f.cache.codes["u1"] != "123456" {
		t.Fatalf("expected otp stored for subject, got %q", f.cache.codes["u1"])
	}
	if f.cache.ttls["u1"] != 300*time.Second {
		t.Fatalf("expected default ttl 300s, got %s", f.cache.ttls["u1"])
	}
	n, ok := f.queue.last()
	if !ok || n.Kind != ports.NotifyOTP || n.To != "ash@example.com" || n.OTP != "123456" {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestLoginService_SubmitLogin_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		verify  bool
		creds   domain.Credentials
		wantErr error
	}{
		{"unknown user", false, domain.Credentials{Username: "gary@example.com", Password: "x"}, domain.ErrBadCredentials},
		{"wrong password", false, domain.Credentials{Username: "ash@example.com", Password: "wrong"}, domain.ErrBadCredentials},
		{"inactive", false, domain.Credentials{Username: "misty@example.com", Password: "starmie1!"}, domain.ErrBadCredentials},
		{"unverified", true, domain.Credentials{Username: "brock@example.com", Password: "onix123!"}, domain.ErrNotVerified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoginFixture(tt.verify)
			attempt, err := f.svc.SubmitLogin(context.Background(), tt.creds)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if attempt.State != domain.LoginRejected {
				t.Fatalf("expected rejected, got %s", attempt.State)
			}
			if len(f.cache.codes) != 0 {
				t.Fatalf("no otp may be stored on rejection")
			}
			if _, ok := f.queue.last(); ok {
				t.Fatalf("no notification may be queued on rejection")
			}
		})
	}
}

func TestLoginService_SubmitLogin_UnverifiedAllowedWithoutRequirement(t *testing.T) {
	f := newLoginFixture(false)
	if _, err := f.svc.SubmitLogin(context.Background(), domain.Credentials{Username: "brock@example.com", Password: "onix123!"}); err != nil {
		t.Fatalf("expected unverified login to pass, got %v", err)
	}
}

func TestLoginService_SubmitLogin_StoreUnavailable(t *testing.T) {
	f := newLoginFixture(false)
	f.cache.putErr = fmt.Errorf("otp put: %w", domain.ErrStoreUnavailable)

	_, err := f.svc.SubmitLogin(context.Background(), ash())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, ok := f.queue.last(); ok {
		t.Fatalf("otp must not be mailed when it was not stored")
	}
}

func TestLoginService_SubmitLogin_QueueFullIsNotAnError(t *testing.T) {
	f := newLoginFixture(false)
	f.queue.err = errors.New("queue full")

	attempt, err := f.svc.SubmitLogin(context.Background(), ash())
	if err != nil {
		t.Fatalf("queue failures must not reach the caller, got %v", err)
	}
	if attempt.State != domain.LoginOTPPending {
		t.Fatalf("expected otp_pending, got %s", attempt.State)
	}
}

func TestLoginService_VerifyOTP_Success(t *testing.T) {
	f := newLoginFixture(false)
	if _, err := f.svc.SubmitLogin(context.Background(), ash()); err != nil {
		t.Fatalf("SubmitLogin: %v", err)
	}

	session, err := f.svc.VerifyOTP(context.Background(), ash(), "123456")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if session.UserID != "u1" || session.TokenType != domain.TokenTypeBearer {
		t.Fatalf("unexpected session: %+v", session)
	}
	if _, ok := f.cache.codes["u1"]; ok {
		t.Fatalf("otp must be consumed")
	}
}

func TestLoginService_VerifyOTP_Replay(t *testing.T) {
	f := newLoginFixture(false)
	_, _ = f.svc.SubmitLogin(context.Background(), ash())

	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "123456"); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "123456"); !errors.Is(err, domain.ErrBadOTP) {
		t.Fatalf("expected ErrBadOTP on replay, got %v", err)
	}
	if len(f.issuer.issued) != 1 {
		t.Fatalf("expected exactly one session, got %d", len(f.issuer.issued))
	}
}

func TestLoginService_VerifyOTP_Rejections(t *testing.T) {
	f := newLoginFixture(false)
	_, _ = f.svc.SubmitLogin(context.Background(), ash())

	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "000000"); !errors.Is(err, domain.ErrBadOTP) {
		t.Fatalf("expected ErrBadOTP for wrong code, got %v", err)
	}
	if _, err := f.svc.VerifyOTP(context.Background(), ash(), ""); !errors.Is(err, domain.ErrBadOTP) {
		t.Fatalf("expected ErrBadOTP for empty code, got %v", err)
	}
	// A wrong guess leaves the pending code usable.
	if f.cache.codes["u1"] != "123456" {
		t.Fatalf("mismatch must not consume the code")
	}

	bad := domain.Credentials{Username: "ash@example.com", Password: "nope"}
	if _, err := f.svc.VerifyOTP(context.Background(), bad, "123456"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if f.cache.codes["u1"] != "123456" {
		t.Fatalf("bad credentials must not touch the code")
	}
}

func TestLoginService_VerifyOTP_WithoutSubmit(t *testing.T) {
	f := newLoginFixture(false)
	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "123456"); !errors.Is(err, domain.ErrBadOTP) {
		t.Fatalf("expected ErrBadOTP, got %v", err)
	}
}

func TestLoginService_VerifyOTP_NewSubmitReplacesCode(t *testing.T) {
	f := newLoginFixture(false)
	_, _ = f.svc.SubmitLogin(context.Background(), ash())

	f.svc.otps = stubOTPGenerator{code: "654321"}
	_, _ = f.svc.SubmitLogin(context.Background(), ash())

	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "123456"); !errors.Is(err, domain.ErrBadOTP) {
		t.Fatalf("superseded code must be rejected, got %v", err)
	}
	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "654321"); err != nil {
		t.Fatalf("latest code must be accepted, got %v", err)
	}
}

func TestLoginService_VerifyOTP_ConcurrentSingleUse(t *testing.T) {
	f := newLoginFixture(false)
	_, _ = f.svc.SubmitLogin(context.Background(), ash())

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.VerifyOTP(context.Background(), ash(), "123456"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}
}

func TestLoginService_VerifyOTP_StoreUnavailable(t *testing.T) {
	f := newLoginFixture(false)
	f.cache.getErr = fmt.Errorf("otp consume: %w", domain.ErrStoreUnavailable)

	if _, err := f.svc.VerifyOTP(context.Background(), ash(), "123456"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
