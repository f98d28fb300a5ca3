package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/api/metrics"
	"github.com/clinichub/clinic-api/internal/core/authz"
	"github.com/clinichub/clinic-api/internal/core/domain"
)

const (
	claimsKey = "claims"
	tokenKey  = "token"
)

// Auth resolves the bearer token through gate and stores the caller's claims
// on the context. Every failure is domain.ErrUnauthenticated.
func Auth(gate *authz.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			claims, err := gate.CurrentUser(c.Request().Context(), token)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return err
			}

			SetClaims(c, claims, token)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SetClaims stores an authenticated caller on c.
func SetClaims(c echo.Context, claims domain.Claims, token string) {
	c.Set(claimsKey, claims)
	c.Set(tokenKey, token)
}

// Claims returns the caller injected by Auth. Handlers mounted behind Auth
// can rely on ok being true.
func Claims(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}

// Token returns the raw bearer token injected by Auth.
func Token(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}
