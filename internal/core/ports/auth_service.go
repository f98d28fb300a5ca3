package ports

import (
	"context"
	"time"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Profile     domain.Claims
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout revokes token until its own expiry.
	Logout(ctx context.Context, token string, claims domain.Claims) error
	// SetPassword replaces userID's password. Callers may change their own,
	// admins anyone's.
	SetPassword(ctx context.Context, caller domain.Claims, userID, newPassword string) error
}
