package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

const (
	DefaultTokenTTL = 30 * time.Minute
	minSecretLen    = 32
)

var ErrWeakSecret = errors.New("jwt secret must be at least 32 bytes")

// tokenClaims is the wire form: identity attributes next to the registered
// iat/exp/sub claims.
type tokenClaims struct {
	domain.Claims
	jwt.RegisteredClaims
}

// TokenService issues and validates HMAC-signed access tokens. It keeps no
// per-token state.
type TokenService struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenService accepts HS256, HS384 or HS512; an empty alg means HS256.
func NewTokenService(secret, alg string, defaultTTL time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	var method *jwt.SigningMethodHMAC
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		method = jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		method = jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", alg)
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// DefaultTTL is the lifetime used when Issue is given a non-positive ttl.
func (s *TokenService) DefaultTTL() time.Duration { return s.defaultTTL }

func (s *TokenService) Issue(claims domain.Claims, ttl time.Duration) (string, time.Time, error) {
	if claims.UserID == "" {
		return "", time.Time{}, domain.Invalid("user_id", "is required")
	}
	if !claims.Role.Valid() {
		return "", time.Time{}, domain.Invalid("role", "unknown role %q", claims.Role)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)
	claims.ExpiresAt = time.Time{}

	t := jwt.NewWithClaims(s.method, tokenClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate returns domain.ErrUnauthenticated for every failure: bad
// signature, foreign algorithm, expiry, malformed input or unknown role.
func (s *TokenService) Validate(token string) (domain.Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	if tc.UserID == "" || tc.Subject != tc.UserID || !tc.Role.Valid() {
		return domain.Claims{}, domain.ErrUnauthenticated
	}

	claims := tc.Claims
	claims.ExpiresAt = tc.RegisteredClaims.ExpiresAt.Time.UTC()
	return claims, nil
}
