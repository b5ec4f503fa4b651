// Package domain contains the core business entities and domain logic for the Glossy magazine builder.
package domain

import "time"

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in and use the system.
	UserStatusActive UserStatus = "active"
	// UserStatusPending indicates the user is awaiting admin approval.
	UserStatusPending UserStatus = "pending"
)

// User represents an authenticated user account in the system.
type User struct {
	Record
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsRoot       bool       `json:"is_root"`
	Status       UserStatus `json:"status,omitempty"` // active or pending (empty = active for backward compat)
	DisplayName  string     `json:"display_name"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	LastLoginAt  time.Time  `json:"last_login_at"`

	// Profile fields shown on the public profile page.
	Tagline    string   `json:"tagline,omitempty"`
	AvatarPath string   `json:"avatar_path,omitempty"`
	Interests  []string `json:"interests,omitempty"`
}

// IsActive returns true if the user can log in and use the system.
// Empty status is treated as active for backward compatibility with existing users.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}
