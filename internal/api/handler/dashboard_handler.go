package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Admin returns clinic-wide counters.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AdminDashboard
// @Failure      403  {object}  errorResponse
// @Router       /admin/dashboard/data [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	data, err := h.service.Admin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// Doctor returns the calling doctor's counters.
//
// @Summary      Doctor dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DoctorDashboard
// @Failure      403  {object}  errorResponse
// @Router       /api/doctor/dashboard [get]
func (h *DashboardHandler) Doctor(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	data, err := h.service.Doctor(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
