package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/api/middleware"
	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// newContext builds an echo context for a JSON request. A non-nil caller is
// stored the way the Auth middleware would.
func newContext(t *testing.T, method, target, body string, caller *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		middleware.SetClaims(c, *caller, "test-token")
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

var (
	adminCaller   = domain.Claims{UserID: "a-1", Email: "admin@clinic.test", Role: domain.RoleAdmin}
	doctorCaller  = domain.Claims{UserID: "d-1", Email: "house@clinic.test", Role: domain.RoleDoctor}
	patientCaller = domain.Claims{UserID: "p-1", Email: "pat@clinic.test", Role: domain.RolePatient}
)

// ---------------------------------------------------------------------------
// Auth service
// ---------------------------------------------------------------------------

type stubAuthService struct {
	loginFn       func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn      func(ctx context.Context, token string, claims domain.Claims) error
	setPasswordFn func(ctx context.Context, caller domain.Claims, userID, newPassword string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string, claims domain.Claims) error {
	return s.logoutFn(ctx, token, claims)
}

func (s *stubAuthService) SetPassword(ctx context.Context, caller domain.Claims, userID, newPassword string) error {
	return s.setPasswordFn(ctx, caller, userID, newPassword)
}

// ---------------------------------------------------------------------------
// User service
// ---------------------------------------------------------------------------

type stubUserService struct {
	registerFn func(ctx context.Context, role domain.Role, in ports.RegisterInput) (*domain.User, error)
	getFn      func(ctx context.Context, role domain.Role, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, role domain.Role, id string, patch domain.UserPatch) (*domain.User, error)
	deleteFn   func(ctx context.Context, role domain.Role, id string) error
	listFn     func(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, role domain.Role, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, role, in)
}

func (s *stubUserService) Get(ctx context.Context, role domain.Role, id string) (*domain.User, error) {
	return s.getFn(ctx, role, id)
}

func (s *stubUserService) Update(ctx context.Context, role domain.Role, id string, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, role, id, patch)
}

func (s *stubUserService) Delete(ctx context.Context, role domain.Role, id string) error {
	return s.deleteFn(ctx, role, id)
}

func (s *stubUserService) List(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.listFn(ctx, role)
}

// ---------------------------------------------------------------------------
// Record service
// ---------------------------------------------------------------------------

type stubRecordService[T any] struct {
	createFn func(ctx context.Context, rec *T) (*T, error)
	getFn    func(ctx context.Context, id string) (*T, error)
	updateFn func(ctx context.Context, id string, fields map[string]any) (*T, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, in ports.ListInput) (*ports.ListResult[T], error)
}

func (s *stubRecordService[T]) Create(ctx context.Context, rec *T) (*T, error) {
	return s.createFn(ctx, rec)
}

func (s *stubRecordService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.getFn(ctx, id)
}

func (s *stubRecordService[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	return s.updateFn(ctx, id, fields)
}

func (s *stubRecordService[T]) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubRecordService[T]) List(ctx context.Context, in ports.ListInput) (*ports.ListResult[T], error) {
	return s.listFn(ctx, in)
}

// ---------------------------------------------------------------------------
// Dashboard service
// ---------------------------------------------------------------------------

type stubDashboardService struct {
	adminFn  func(ctx context.Context) (*domain.AdminDashboard, error)
	doctorFn func(ctx context.Context, doctorID string) (*domain.DoctorDashboard, error)
}

func (s *stubDashboardService) Admin(ctx context.Context) (*domain.AdminDashboard, error) {
	return s.adminFn(ctx)
}

func (s *stubDashboardService) Doctor(ctx context.Context, doctorID string) (*domain.DoctorDashboard, error) {
	return s.doctorFn(ctx, doctorID)
}
