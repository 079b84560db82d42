// Package otp generates the e-mailed login codes.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	defaultPeriod = 30
	secretBytes   = 20
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// TOTPGenerator derives a TOTP key per subject from a process secret and
// returns the code for the current time step.
type TOTPGenerator struct {
	secret []byte
	opts   totp.ValidateOpts
	now    func() time.Time
}

// Option customises a TOTPGenerator.
type Option func(*TOTPGenerator)

// WithClock overrides the wall clock. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *TOTPGenerator) { g.now = now }
}

// WithPeriod sets the time step in seconds.
func WithPeriod(seconds uint) Option {
	return func(g *TOTPGenerator) { g.opts.Period = seconds }
}

// NewTOTPGenerator builds a generator seeded with secret. An empty secret
// is replaced with random bytes.
func NewTOTPGenerator(secret string, opts ...Option) (*TOTPGenerator, error) {
	seed := []byte(secret)
	if len(seed) == 0 {
		seed = make([]byte, secretBytes)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("otp seed: %w", err)
		}
	}

	g := &TOTPGenerator{
		secret: seed,
		opts: totp.ValidateOpts{
			Period:    defaultPeriod,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate returns the 6-digit code of subjectID for the current step.
func (g *TOTPGenerator) Generate(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("otp: empty subject")
	}
	code, err := totp.GenerateCodeCustom(g.subjectKey(subjectID), g.now(), g.opts)
	if err != nil {
		return "", fmt.Errorf("otp generate: %w", err)
	}
	return code, nil
}

// subjectKey is HMAC-SHA256(secret, subjectID) in base32, the form TOTP
// secrets are exchanged in.
func (g *TOTPGenerator) subjectKey(subjectID string) string {
	mac := hmac.New(sha256.New, g.secret)
	_, _ = mac.Write([]byte(subjectID))
	return b32.EncodeToString(mac.Sum(nil))
}
