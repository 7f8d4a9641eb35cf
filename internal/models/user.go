package models

import "time"

// User is the locally cached record of a signed-in user. It lives in the
// server session and is owned by the OIDC user manager.
type User struct {
	Sub         string    `json:"sub"`
	Iss         string    `json:"iss"`
	Username    string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Groups      []string  `json:"groups"`
	SessionID   string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	SignedInAt  time.Time `json:"signed_in_at"`

	IDToken      string `json:"-"`
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}

// Expired reports whether the user's tokens are past their expiry at now.
// A zero expiry never expires.
func (u *User) Expired(now time.Time) bool {
	if u == nil {
		return true
	}
	if u.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(u.ExpiresAt)
}

// SessionStatus is the provider's view of the current session.
type SessionStatus struct {
	Sub       string
	SessionID string
}
