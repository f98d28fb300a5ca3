package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// UserService manages doctor and patient accounts.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, role domain.Role, in ports.RegisterInput) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.Invalid("role", "unknown role %q", role)
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("email", "must be a valid email")
	}
	if len(in.Password) < MinPasswordLen {
		return nil, domain.Invalid("password", "must be at least %d characters", MinPasswordLen)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          email,
		Phone:          in.Phone,
		Address:        in.Address,
		PasswordHash:   hash,
		Role:           role,
		ProfileImage:   in.ProfileImage,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register %s: %w", role, err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role.String()).Msg("user registered")
	return user, nil
}

// Get returns ErrNotFound both for a missing id and for an id of another role.
func (s *UserService) Get(ctx context.Context, role domain.Role, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: role.String()}
		}
		return nil, fmt.Errorf("get %s: %w", role, err)
	}
	if user.Role != role {
		return nil, &domain.NotFoundError{Entity: role.String()}
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, role domain.Role, id string, patch domain.UserPatch) (*domain.User, error) {
	if _, err := s.Get(ctx, role, id); err != nil {
		return nil, err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, &domain.ValidationError{Msg: "no fields to update"}
	}
	fields["updated_at"] = s.now().UTC()

	user, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", role, err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, role domain.Role, id string) error {
	if _, err := s.Get(ctx, role, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Entity: role.String()}
		}
		return fmt.Errorf("delete %s: %w", role, err)
	}
	s.log.Info().Str("user_id", id).Str("role", role.String()).Msg("user deleted")
	return nil
}

func (s *UserService) List(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.repo.List(ctx, role)
}
