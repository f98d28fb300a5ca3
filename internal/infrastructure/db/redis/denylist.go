package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// Denylist stores revoked access tokens in Redis until they would have
// expired on their own.
// Key format: denylist:<sha256 of the token signature>
type Denylist struct {
	client *redis.Client
	now    func() time.Time
}

// NewDenylist creates a Denylist wrapping the given Redis client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client, now: time.Now}
}

// Revoke marks token as revoked until until. Tokens already past expiry are
// not stored.
func (d *Denylist) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist revoke: %w: %v", domain.ErrTransient, err)
	}
	return nil
}

// IsRevoked reports whether token has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w: %v", domain.ErrTransient, err)
	}
	return n > 0, nil
}

func (d *Denylist) key(token string) string {
	sig := token
	if i := strings.LastIndexByte(token, '.'); i >= 0 {
		sig = token[i+1:]
	}
	sum := sha256.Sum256([]byte(sig))
	return "denylist:" + hex.EncodeToString(sum[:])
}
