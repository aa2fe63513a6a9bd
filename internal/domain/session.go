package domain

import "time"

// Session tracks an authenticated login and its refresh token.
// Only the hash of the refresh token is stored; the token itself goes to the
// client once and is rotated on every refresh.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
}

// Touch updates LastSeenAt to the current time.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired returns true if the session's refresh token is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
