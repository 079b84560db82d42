package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// Token audiences. Each kind of token is signed with its own secret and
// audience so one can never be replayed as another.
const (
	AudienceAuth   = "battle-api:auth"
	AudienceReset  = "battle-api:reset"
	AudienceVerify = "battle-api:verify"
)

// actionClaims is carried by reset-password and verification tokens.
// Binding is a fingerprint of the user state the token was issued against
// (password hash or e-mail); once that state changes the token is void.
type actionClaims struct {
	Binding string `json:"bnd"`
	jwt.RegisteredClaims
}

// ActionTokens issues and parses single-purpose, stateless JWTs.
type ActionTokens struct {
	secret   []byte
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewActionTokens(secret, audience string, ttl time.Duration) *ActionTokens {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ActionTokens{secret: []byte(secret), audience: audience, ttl: ttl, now: time.Now}
}

// Issue signs a token for subject bound to the given state.
func (t *ActionTokens) Issue(subject, state string) (string, error) {
	now := t.now()
	claims := actionClaims{
		Binding: fingerprint(state),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates token and returns its subject. The token is rejected with
// domain.ErrBadToken unless it was issued against state.
func (t *ActionTokens) Parse(token string) (subject string, check func(state string) error, err error) {
	var claims actionClaims
	if err := parseHS256(token, &claims, t.secret, t.audience, t.now); err != nil {
		return "", nil, err
	}
	check = func(state string) error {
		if claims.Binding != fingerprint(state) {
			return domain.ErrBadToken
		}
		return nil
	}
	return claims.Subject, check, nil
}

func parseHS256(token string, claims jwt.Claims, secret []byte, audience string, now func() time.Time) error {
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: expired", domain.ErrBadToken)
		}
		return fmt.Errorf("%w: %v", domain.ErrBadToken, err)
	}
	return nil
}

func fingerprint(state string) string {
	sum := sha256.Sum256([]byte(state))
	return hex.EncodeToString(sum[:])
}
