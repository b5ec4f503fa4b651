package domain

import "time"

// Session tracks one refresh-token session for a user. Only the hash of the
// refresh token is stored; the token itself never touches disk.
type Session struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	RefreshTokenHash string     `json:"refresh_token_hash"`
	ExpiresAt        time.Time  `json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
	LastUsedAt       time.Time  `json:"last_used_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
}

// IsValid reports whether the session can still mint new access tokens.
func (s *Session) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Revoke marks the session unusable from now on.
func (s *Session) Revoke() {
	now := time.Now()
	s.RevokedAt = &now
}
