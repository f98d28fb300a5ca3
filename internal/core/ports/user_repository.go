package ports

import (
	"context"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// UserRepository is the credential store. Email is unique across all roles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches the normalised (lower-case) address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	// List and Count scope to role when it is non-empty.
	List(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Count(ctx context.Context, role domain.Role) (int64, error)
}
