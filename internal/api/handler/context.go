package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/api/middleware"
	"github.com/clinichub/clinic-api/internal/core/domain"
)

// ctxClaims returns the caller injected by the Auth middleware. Missing
// claims mean the route was mounted without Auth, which is treated as an
// unauthenticated request rather than a panic.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.UserID == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	return claims, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
// Decode failures are 400; rule violations are domain validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// queryInt parses a positive integer query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid(name, "must be a non-negative integer")
	}
	return n, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
}
