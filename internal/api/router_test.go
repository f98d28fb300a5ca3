package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/clinichub/clinic-api/internal/core/authz"
	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
	"github.com/clinichub/clinic-api/internal/core/relay"
	"github.com/clinichub/clinic-api/internal/core/service"
	"github.com/clinichub/clinic-api/internal/pkg/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type rejectingAuth struct{ ports.AuthService }

func (rejectingAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func newTestRouter(t *testing.T) (*echo.Echo, *service.TokenService) {
	t.Helper()
	tokens, err := service.NewTokenService(testSecret, "HS256", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	cfg := &config.Config{
		CORSOrigins: []string{"*"},
		Auth:        config.AuthConfig{LoginRateLimit: 0.001, LoginRateBurst: 1},
		Relay:       config.RelayConfig{WriteTimeout: time.Second, MaxMessageBytes: 1024},
	}
	e := NewRouter(Dependencies{
		Config:   cfg,
		Log:      zerolog.Nop(),
		Gate:     authz.NewGate(tokens, nil, zerolog.Nop()),
		Auth:     rejectingAuth{},
		Hub:      relay.NewHub(nil, zerolog.Nop()),
		Registry: prometheus.NewRegistry(),
	})
	return e, tokens
}

func bearer(t *testing.T, tokens *service.TokenService, role domain.Role) string {
	t.Helper()
	token, _, err := tokens.Issue(domain.Claims{UserID: string(role) + "-1", Role: role}, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + token
}

func serve(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestRouter_RoleGates(t *testing.T) {
	e, tokens := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		role   domain.Role
		code   int
		msg    string
	}{
		{"admin list without token", http.MethodGet, "/api/admin/doctors", "", http.StatusUnauthorized, "not authenticated"},
		{"admin list as patient", http.MethodGet, "/api/admin/doctors", domain.RolePatient, http.StatusForbidden, "requires role: admin"},
		{"admin list as doctor", http.MethodGet, "/api/admin/patients", domain.RoleDoctor, http.StatusForbidden, "requires role: admin"},
		{"stock as doctor", http.MethodGet, "/api/stock", domain.RoleDoctor, http.StatusForbidden, "requires role: admin"},
		{"medical records as patient", http.MethodGet, "/api/medical-records", domain.RolePatient, http.StatusForbidden, "requires role: admin or doctor"},
		{"prescription write as patient", http.MethodPost, "/api/prescriptions", domain.RolePatient, http.StatusForbidden, "requires role: admin or doctor"},
		{"billing write as doctor", http.MethodDelete, "/api/billing/b-1", domain.RoleDoctor, http.StatusForbidden, "requires role: admin"},
		{"doctor dashboard as admin", http.MethodGet, "/api/doctor/dashboard", domain.RoleAdmin, http.StatusForbidden, "requires role: doctor"},
		{"admin dashboard as doctor", http.MethodGet, "/admin/dashboard/data", domain.RoleDoctor, http.StatusForbidden, "requires role: admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := ""
			if tc.role != "" {
				auth = bearer(t, tokens, tc.role)
			}
			rec := serve(e, tc.method, tc.path, auth, "")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, rec.Code, rec.Body.String())
			}
			if got := errorMessage(t, rec); got != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestRouter_InvalidToken(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/api/auth/me", "Bearer not.a.token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_MeWithValidToken(t *testing.T) {
	e, tokens := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/api/auth/me", bearer(t, tokens, domain.RolePatient), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginRateLimited(t *testing.T) {
	e, _ := newTestRouter(t)
	body := `{"email":"x@clinic.test","password":"wrong"}`

	if rec := serve(e, http.MethodPost, "/api/auth/login", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("first attempt: expected 401, got %d", rec.Code)
	}
	rec := serve(e, http.MethodPost, "/api/auth/login", "", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt: expected 429, got %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != "too many login attempts" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRouter_Operational(t *testing.T) {
	e, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := serve(e, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_EveryRouteDocumented(t *testing.T) {
	e, _ := newTestRouter(t)

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc is not valid json: %v", err)
	}

	documented := 0
	for _, r := range e.Routes() {
		switch {
		case r.Path == "/metrics", strings.HasPrefix(r.Path, "/swagger"):
			continue
		case r.Method == echo.RouteNotFound:
			continue
		}
		path := r.Path
		for _, seg := range strings.Split(r.Path, "/") {
			if strings.HasPrefix(seg, ":") {
				path = strings.Replace(path, seg, "{"+seg[1:]+"}", 1)
			}
		}
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s is not documented", r.Method, path)
			continue
		}
		documented++
	}
	if documented == 0 {
		t.Fatal("no routes checked")
	}
}
