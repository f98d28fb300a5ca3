package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/api/metrics"
	"github.com/clinichub/clinic-api/internal/api/middleware"
	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// patientOwned is implemented by records that belong to one patient.
type patientOwned interface {
	PatientRef() string
}

// RecordHandler exposes CRUD for one record type. P is the patch body; its
// pointer type PP produces the update fields.
type RecordHandler[T any, P any, PP interface {
	*P
	Fields() map[string]any
}] struct {
	service ports.RecordService[T]
	entity  string
	filters []string
	// Patient callers only see records whose patient_id is their own.
	scoped bool
}

// NewRecordHandler builds a handler whose list endpoint accepts equality
// filters on the given query parameters.
func NewRecordHandler[T any, P any, PP interface {
	*P
	Fields() map[string]any
}](service ports.RecordService[T], entity string, filters ...string) *RecordHandler[T, P, PP] {
	return &RecordHandler[T, P, PP]{service: service, entity: entity, filters: filters}
}

// ScopedToPatient restricts patient callers to their own records. T must
// implement PatientRef.
func (h *RecordHandler[T, P, PP]) ScopedToPatient() *RecordHandler[T, P, PP] {
	h.scoped = true
	return h
}

// patientScope returns the caller's id when the caller must be confined to
// their own records.
func (h *RecordHandler[T, P, PP]) patientScope(c echo.Context) (string, bool) {
	if !h.scoped {
		return "", false
	}
	claims, ok := middleware.Claims(c)
	if !ok || claims.Role != domain.RolePatient {
		return "", false
	}
	return claims.UserID, true
}

// errOtherPatient rejects a patient acting on someone else's records; only
// staff may do that.
func errOtherPatient() error {
	return &domain.ForbiddenError{Required: []domain.Role{domain.RoleAdmin, domain.RoleDoctor}}
}

// owned loads id and hides records that belong to another patient behind
// the same not-found a missing id would produce.
func (h *RecordHandler[T, P, PP]) owned(c echo.Context, id string) (*T, error) {
	rec, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if patientID, ok := h.patientScope(c); ok {
		if ref, isOwned := any(rec).(patientOwned); !isOwned || ref.PatientRef() != patientID {
			return nil, &domain.NotFoundError{Entity: h.entity}
		}
	}
	return rec, nil
}

// Create stores a new record. Any id in the body is replaced.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Appointment
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/appointments [post]
// @Router       /api/prescriptions [post]
// @Router       /api/medical-records [post]
// @Router       /api/stock [post]
// @Router       /api/billing [post]
func (h *RecordHandler[T, P, PP]) Create(c echo.Context) error {
	rec := new(T)
	if err := bindAndValidate(c, rec); err != nil {
		return err
	}
	if patientID, ok := h.patientScope(c); ok {
		if ref, isOwned := any(rec).(patientOwned); !isOwned || ref.PatientRef() != patientID {
			return errOtherPatient()
		}
	}
	created, err := h.service.Create(c.Request().Context(), rec)
	if err != nil {
		return err
	}
	metrics.RecordsCreatedTotal.WithLabelValues(h.entity).Inc()
	return c.JSON(http.StatusCreated, created)
}

// Get returns one record by id.
//
// @Summary      Get a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  domain.Appointment
// @Failure      404  {object}  errorResponse
// @Router       /api/appointments/{id} [get]
// @Router       /api/prescriptions/{id} [get]
// @Router       /api/medical-records/{id} [get]
// @Router       /api/stock/{id} [get]
// @Router       /api/billing/{id} [get]
func (h *RecordHandler[T, P, PP]) Get(c echo.Context) error {
	rec, err := h.owned(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Update applies the fields present in the body.
//
// @Summary      Update a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  domain.Appointment
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/appointments/{id} [put]
// @Router       /api/prescriptions/{id} [put]
// @Router       /api/medical-records/{id} [put]
// @Router       /api/stock/{id} [put]
// @Router       /api/billing/{id} [put]
func (h *RecordHandler[T, P, PP]) Update(c echo.Context) error {
	patch := PP(new(P))
	if err := bindAndValidate(c, patch); err != nil {
		return err
	}
	fields := patch.Fields()
	if patientID, ok := h.patientScope(c); ok {
		if _, err := h.owned(c, c.Param("id")); err != nil {
			return err
		}
		if moved, set := fields["patient_id"]; set && moved != patientID {
			return errOtherPatient()
		}
	}
	rec, err := h.service.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Delete removes a record.
//
// @Summary      Delete a record
// @Tags         records
// @Security     BearerAuth
// @Param        id  path  string  true  "Record id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/appointments/{id} [delete]
// @Router       /api/prescriptions/{id} [delete]
// @Router       /api/medical-records/{id} [delete]
// @Router       /api/stock/{id} [delete]
// @Router       /api/billing/{id} [delete]
func (h *RecordHandler[T, P, PP]) Delete(c echo.Context) error {
	if _, ok := h.patientScope(c); ok {
		if _, err := h.owned(c, c.Param("id")); err != nil {
			return err
		}
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns one page of records matching the equality filters.
//
// @Summary      List records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        patient_id  query     string  false  "Patient id"
// @Param        doctor_id   query     string  false  "Doctor id"
// @Param        status      query     string  false  "Status"
// @Param        page        query     int     false  "Page, from 1"
// @Param        limit       query     int     false  "Page size, at most 100"
// @Success      200         {object}  ports.ListResult[domain.Appointment]
// @Failure      422         {object}  errorResponse
// @Router       /api/appointments [get]
// @Router       /api/prescriptions [get]
// @Router       /api/medical-records [get]
// @Router       /api/stock [get]
// @Router       /api/billing [get]
func (h *RecordHandler[T, P, PP]) List(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}

	equals := make(map[string]any)
	for _, name := range h.filters {
		if v := c.QueryParam(name); v != "" {
			equals[name] = v
		}
	}
	if patientID, ok := h.patientScope(c); ok {
		equals["patient_id"] = patientID
	}

	res, err := h.service.List(c.Request().Context(), ports.ListInput{
		Equals: equals,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
