package domain

import "time"

// Claims is the identity carried by an access token. It is immutable once
// issued and never refreshed from storage while the token is alive.
type Claims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`

	// ExpiresAt is filled in on validation from the registered exp claim.
	ExpiresAt time.Time `json:"-"`
}

// HasRole reports whether the claims carry one of roles.
func (c Claims) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
