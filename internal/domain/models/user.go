package models

import "time"

// Role grants access levels inside the API.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is an account able to sign in.
type User struct {
	ID           string     `bson:"_id" json:"id"`
	Email        string     `bson:"email" json:"email"`
	Name         string     `bson:"name" json:"name"`
	Role         Role       `bson:"role" json:"role"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updated_at"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty" json:"last_login,omitempty"`
}

// IsAdmin reports whether the user may manage items and accounts.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is an authenticated login.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
