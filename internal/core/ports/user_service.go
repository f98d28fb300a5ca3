package ports

import (
	"context"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// RegisterInput carries a new doctor or patient account.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Address        string
	ProfileImage   string
	Specialization string
	LicenseNumber  string
}

// UserService manages accounts of a single role. The role is fixed per call
// so a patient id can never be read through a doctor route and vice versa.
type UserService interface {
	Register(ctx context.Context, role domain.Role, in RegisterInput) (*domain.User, error)
	Get(ctx context.Context, role domain.Role, id string) (*domain.User, error)
	Update(ctx context.Context, role domain.Role, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, role domain.Role, id string) error
	List(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
