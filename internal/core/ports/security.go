package ports

import (
	"context"
	"time"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// PasswordHasher produces salted digests and verifies plaintexts against them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never errors; a malformed digest simply does not match.
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// TokenValidator checks signature, algorithm and expiry.
type TokenValidator interface {
	Validate(token string) (domain.Claims, error)
}

// TokenDenylist records explicitly revoked tokens until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
