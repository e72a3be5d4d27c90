package model

import (
	"strings"
	"time"
)

// UserID uniquely identifies a user account
type UserID string

// SystemActor is recorded when no authenticated user performed an action
const SystemActor UserID = "system"

// User is an account that can sign in to the scheduler
type User struct {
	ID           UserID `json:"id"`
	Username     string `json:"username" validate:"required,max=64"`
	FullName     string `json:"full_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"omitempty,mail"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role" validate:"required,enum"`
	IsActive     bool   `json:"is_active"`
	// LastLogin is written only by the authentication service
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsActiveSuperadmin reports whether u counts towards the superadmin quorum
func (u *User) IsActiveSuperadmin() bool {
	return u.IsActive && u.Role == RoleSuperadmin
}

// UserPatch carries the fields supplied on create or update.
// Password is plaintext and is hashed before storage.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Apply merges every field except Password into u
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = NormalizeUsername(*p.Username)
	}
	setString(&u.FullName, p.FullName)
	setString(&u.Email, p.Email)
	setString(&u.Phone, p.Phone)
	setString(&u.Role, p.Role)
	setValue(&u.IsActive, p.IsActive)
}

// NormalizeUsername returns the canonical form used for uniqueness and login
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
