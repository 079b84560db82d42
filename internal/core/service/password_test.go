package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		rule     string
	}{
		{"valid", "pikachu1!", ""},
		{"too short", "pk1!", "min_length"},
		{"too long", strings.Repeat("a1!", 400), "max_length"},
		{"no letter", "12345678!", "letter"},
		{"no digit", "password!", "digit"},
		{"no special", "password1", "special"},
		{"unlisted special", "password1@", "special"},
		{"non-ascii letters only", "пароль12#", "letter"},
		{"mixed letters", "пароль12#a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.rule == "" {
				if err != nil {
					t.Fatalf("expected valid password, got %v", err)
				}
				return
			}
			var perr *PasswordError
			if !errors.As(err, &perr) {
				t.Fatalf("expected PasswordError, got %v", err)
			}
			if perr.Rule != tt.rule {
				t.Fatalf("expected rule %s, got %s", tt.rule, perr.Rule)
			}
			if !errors.Is(err, domain.ErrInvalidPassword) {
				t.Fatalf("expected error to wrap ErrInvalidPassword")
			}
		})
	}
}

func TestValidatePassword_FirstRuleWins(t *testing.T) {
	// Short and missing a digit: length is reported.
	var perr *PasswordError
	if !errors.As(ValidatePassword("ab!"), &perr) || perr.Rule != "min_length" {
		t.Fatalf("expected min_length, got %+v", perr)
	}
}
