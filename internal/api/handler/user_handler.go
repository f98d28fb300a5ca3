package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinichub/clinic-api/internal/core/authz"
	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// UserHandler serves the account routes of one role.
type UserHandler struct {
	service ports.UserService
	role    domain.Role
	// owners, when set, lets a caller outside the policy reach only their
	// own id.
	owners authz.Policy
}

func NewUserHandler(service ports.UserService, role domain.Role, owners authz.Policy) *UserHandler {
	return &UserHandler{service: service, role: role, owners: owners}
}

type registerRequest struct {
	Name           string `json:"name"           validate:"required"`
	Email          string `json:"email"          validate:"required,email"`
	Password       string `json:"password"       validate:"required,min=6"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	ProfileImage   string `json:"profile_image"  validate:"omitempty,url"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// Register creates an account with the handler's role.
//
// @Summary      Register a doctor or patient
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/patient/register [post]
// @Router       /api/doctor/register [post]
// @Router       /api/admin/doctors [post]
// @Router       /api/admin/patients [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), h.role, ports.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Address:        req.Address,
		ProfileImage:   req.ProfileImage,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: capitalize(h.role.String()) + " registered successfully",
		UserID:  user.ID,
	})
}

// Get returns one profile.
//
// @Summary      Get a profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  domain.User
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/patient/profile/{user_id} [get]
// @Router       /api/doctor/profile/{user_id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := h.authorize(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), h.role, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies a partial profile change. Role and password cannot be
// changed here.
//
// @Summary      Update a profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string            true  "User id"
// @Param        body     body      domain.UserPatch  true  "Fields to change"
// @Success      200      {object}  domain.User
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /api/patient/profile/{user_id} [put]
// @Router       /api/doctor/profile/{user_id} [put]
// @Router       /api/admin/doctors/{id} [put]
// @Router       /api/admin/patients/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := h.authorize(c)
	if err != nil {
		return err
	}
	var patch domain.UserPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	user, err := h.service.Update(c.Request().Context(), h.role, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account.
//
// @Summary      Delete a profile
// @Tags         users
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patient/profile/{user_id} [delete]
// @Router       /api/doctor/profile/{user_id} [delete]
// @Router       /api/admin/doctors/{id} [delete]
// @Router       /api/admin/patients/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := h.authorize(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), h.role, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns every account of the handler's role.
//
// @Summary      List doctors or patients
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/doctors [get]
// @Router       /api/admin/patients [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context(), h.role)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// authorize resolves the path id and applies the owner rule.
func (h *UserHandler) authorize(c echo.Context) (string, error) {
	id := c.Param("user_id")
	if id == "" {
		id = c.Param("id")
	}
	if h.owners == nil {
		return id, nil
	}
	claims, err := ctxClaims(c)
	if err != nil {
		return "", err
	}
	if err := authz.RequireSelfOrRole(claims, id, h.owners); err != nil {
		return "", err
	}
	return id, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
