package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

const MinPasswordLen = 6

// AuthService implements login, logout and password replacement.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	denylist ports.TokenDenylist
	ttl      time.Duration
	log      zerolog.Logger

	dummyOnce sync.Once
	dummy     string
}

// NewAuthService wires the login flow. denylist may be nil, in which case
// logout only relies on the client discarding its token.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	denylist ports.TokenDenylist,
	ttl time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		ttl:      ttl,
		log:      log,
	}
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password. Unknown emails still pay for one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(password, s.dummyDigest())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	claims := user.Claims()
	token, exp, err := s.tokens.Issue(claims, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("login succeeded")
	claims.ExpiresAt = exp
	return &ports.LoginResult{AccessToken: token, ExpiresAt: exp, Profile: claims}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string, claims domain.Claims) error {
	if s.denylist == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", claims.UserID).Msg("token revoked")
	return nil
}

func (s *AuthService) SetPassword(ctx context.Context, caller domain.Claims, userID, newPassword string) error {
	if userID == "" {
		return domain.Invalid("user_id", "is required")
	}
	if caller.UserID != userID && caller.Role != domain.RoleAdmin {
		return &domain.ForbiddenError{Required: []domain.Role{domain.RoleAdmin}}
	}
	if len(newPassword) < MinPasswordLen {
		return domain.Invalid("new_password", "must be at least %d characters", MinPasswordLen)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("by", caller.UserID).Msg("password updated")
	return nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash("clinichub-login-placeholder")
		if err != nil {
			s.log.Warn().Err(err).Msg("placeholder digest unavailable")
		}
		s.dummy = d
	})
	return s.dummy
}

// NormalizeEmail trims and lower-cases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
