package response

import (
	"time"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/auth"
)

// User represents a user in API responses. The password hash is never sent.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      model.Role `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromModel converts a list of users
func UsersFromModel(users []*model.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = UserFromModel(u)
	}
	return out
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	User         User      `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session, u *model.User) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(u),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// List wraps a list result
type List[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewList wraps items, sending an empty array rather than null
func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Count: len(items)}
}

// Health is the response for the health endpoint
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Storage   string    `json:"storage"`
}
