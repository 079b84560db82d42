package domain

import "time"

// TokenTypeBearer is the only token type issued by the session issuer.
const TokenTypeBearer = "bearer"

// Session is the authenticated session minted after a successful OTP check.
type Session struct {
	Token     string
	TokenType string
	UserID    string
	ExpiresAt time.Time
}
