package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

type authFixture struct {
	repo     *stubUserRepo
	hasher   *BcryptHasher
	tokens   *TokenService
	denylist *stubDenylist
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		repo:     newStubUserRepo(),
		hasher:   NewBcryptHasher(bcrypt.MinCost),
		tokens:   newTestTokenService(t, time.Now()),
		denylist: newStubDenylist(),
	}
	f.svc = NewAuthService(f.repo, f.hasher, f.tokens, f.denylist, 0, zerolog.Nop())
	return f
}

func (f *authFixture) seed(t *testing.T, id, email, password string, role domain.Role) {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := f.repo.Create(context.Background(), &domain.User{
		ID: id, Name: id, Email: email, PasswordHash: hash, Role: role,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, "d-1", "doc@clinic.test", "pw-doc-1", domain.RoleDoctor)

	res, err := f.svc.Login(context.Background(), "  Doc@Clinic.test ", "pw-doc-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.Profile.UserID != "d-1" || res.Profile.Role != domain.RoleDoctor {
		t.Fatalf("unexpected profile: %+v", res.Profile)
	}

	claims, err := f.tokens.Validate(res.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != "d-1" || claims.Email != "doc@clinic.test" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(res.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", claims.ExpiresAt, res.ExpiresAt)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, "d-1", "doc@clinic.test", "pw-doc-1", domain.RoleDoctor)

	_, wrongPw := f.svc.Login(context.Background(), "doc@clinic.test", "nope")
	_, unknown := f.svc.Login(context.Background(), "ghost@clinic.test", "pw-doc-1")

	if !errors.Is(wrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPw, unknown)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "a@b.c", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.err = domain.ErrTransient

	_, err := f.svc.Login(context.Background(), "doc@clinic.test", "pw")
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient to surface, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	exp := time.Now().Add(10 * time.Minute)

	if err := f.svc.Logout(context.Background(), "tok", domain.Claims{UserID: "d-1", ExpiresAt: exp}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if until, ok := f.denylist.revoked["tok"]; !ok || !until.Equal(exp) {
		t.Fatalf("token not revoked until expiry: %v %v", ok, until)
	}
}

func TestAuthService_Logout_NoDenylist(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewAuthService(f.repo, f.hasher, f.tokens, nil, 0, zerolog.Nop())

	if err := svc.Logout(context.Background(), "tok", domain.Claims{UserID: "d-1"}); err != nil {
		t.Fatalf("expected no-op logout, got %v", err)
	}
}

func TestAuthService_SetPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, "p-1", "pat@clinic.test", "old-pass", domain.RolePatient)
	f.seed(t, "p-2", "pat2@clinic.test", "other-pass", domain.RolePatient)
	ctx := context.Background()

	self := domain.Claims{UserID: "p-1", Role: domain.RolePatient}
	if err := f.svc.SetPassword(ctx, self, "p-1", "new-pass"); err != nil {
		t.Fatalf("self reset failed: %v", err)
	}
	if _, err := f.svc.Login(ctx, "pat@clinic.test", "new-pass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	if err := f.svc.SetPassword(ctx, self, "p-2", "hijacked"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign reset, got %v", err)
	}

	admin := domain.Claims{UserID: "a-1", Role: domain.RoleAdmin}
	if err := f.svc.SetPassword(ctx, admin, "p-2", "reset-by-admin"); err != nil {
		t.Fatalf("admin reset failed: %v", err)
	}

	if err := f.svc.SetPassword(ctx, self, "p-1", "123"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}

	if err := f.svc.SetPassword(ctx, admin, "missing", "long-enough"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
