package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/api/metrics"
	"github.com/clinichub/clinic-api/internal/core/authz"
	"github.com/clinichub/clinic-api/internal/core/domain"
)

// RequireRole enforces policy on the claims stored by Auth.
func RequireRole(policy authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, err := authz.RequireRole(claims, policy); err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return err
			}
			return next(c)
		}
	}
}
