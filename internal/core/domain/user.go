package domain

import "time"

// DefaultRoleID is assigned to every newly registered account.
const DefaultRoleID = 1

// User models an account that can sign in. It is the identity the login flow
// authenticates and the subject every OTP is keyed by.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	IsSuperuser  bool      `json:"is_superuser"`
	RoleID       int       `json:"role_id"`
	Role         *Role     `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role groups permissions shared by a set of users.
type Role struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Permissions map[string]any `json:"permissions"`
}

// UserUpdate carries the optional fields of a profile update. Nil means
// "leave unchanged".
type UserUpdate struct {
	Email    *string
	Password *string
}
