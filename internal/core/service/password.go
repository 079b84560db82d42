package service

import (
	"fmt"
	"strings"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 1024
	specialCharacters = "!#$%&?"
)

// PasswordRule is a single named password requirement.
type PasswordRule struct {
	Name    string
	Message string
	Check   func(password string) bool
}

// PasswordRules is evaluated in order; the first failing rule wins.
var PasswordRules = []PasswordRule{
	{
		Name:    "min_length",
		Message: fmt.Sprintf("Password should be at least %d characters", minPasswordLength),
		Check:   func(p string) bool { return len([]rune(p)) >= minPasswordLength },
	},
	{
		Name:    "max_length",
		Message: "Password is too long",
		Check:   func(p string) bool { return len([]rune(p)) <= maxPasswordLength },
	},
	{
		Name:    "letter",
		Message: "Password should contain at least one letter",
		Check:   func(p string) bool { return strings.IndexFunc(p, isASCIILetter) >= 0 },
	},
	{
		Name:    "digit",
		Message: "Password should contain at least one digit",
		Check:   func(p string) bool { return strings.ContainsAny(p, "0123456789") },
	},
	{
		Name:    "special",
		Message: "Password should contain at least one special character (" + specialCharacters + ")",
		Check:   func(p string) bool { return strings.ContainsAny(p, specialCharacters) },
	},
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ValidatePassword returns nil when password satisfies every rule, or an
// error wrapping domain.ErrInvalidPassword that carries the message of the
// first rule it breaks.
func ValidatePassword(password string) error {
	for _, rule := range PasswordRules {
		if !rule.Check(password) {
			return &PasswordError{Rule: rule.Name, Message: rule.Message}
		}
	}
	return nil
}

// PasswordError reports which rule a password broke.
type PasswordError struct {
	Rule    string
	Message string
}

func (e *PasswordError) Error() string { return e.Message }

func (e *PasswordError) Unwrap() error { return domain.ErrInvalidPassword }
