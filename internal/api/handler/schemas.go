package handler

import (
	"time"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

// ── Auth ──────────────────────────────────────────────────────────────────────

type credentialsForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type verifyOTPForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	OTP      string `form:"otp"      validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// ── Users ─────────────────────────────────────────────────────────────────────

type roleRead struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Permissions map[string]any `json:"permissions"`
}

type userRead struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	IsVerified  bool      `json:"is_verified"`
	RoleID      int       `json:"role_id"`
	Role        *roleRead `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type userUpdateRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password"`
}

func toUserRead(u *domain.User) userRead {
	out := userRead{
		ID:          u.ID,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		IsVerified:  u.IsVerified,
		RoleID:      u.RoleID,
		CreatedAt:   u.CreatedAt,
	}
	if u.Role != nil {
		out.Role = &roleRead{ID: u.Role.ID, Name: u.Role.Name, Permissions: u.Role.Permissions}
	}
	return out
}

// ── Battles ───────────────────────────────────────────────────────────────────

// logSchema is both the request and the response body of the battle endpoints.
type logSchema struct {
	WinnerID    int `json:"winner_id"    validate:"gt=0"`
	LoserID     int `json:"loser_id"     validate:"gt=0"`
	TotalRounds int `json:"total_rounds" validate:"gt=0"`
}

func (l logSchema) toInput() ports.BattleLogInput {
	return ports.BattleLogInput{WinnerID: l.WinnerID, LoserID: l.LoserID, TotalRounds: l.TotalRounds}
}

func toLogSchema(b *domain.BattleLog) logSchema {
	return logSchema{WinnerID: b.WinnerID, LoserID: b.LoserID, TotalRounds: b.TotalRounds}
}

type sendMailQuery struct {
	Mail string `query:"mail" validate:"required,email"`
}
