package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// RecordService is the CRUD use case shared by every clinical record type.
// PT lets the service reach the pointer methods of domain.Record on *T.
type RecordService[T any, PT interface {
	*T
	domain.Record
}] struct {
	repo   ports.Repository[T]
	entity string
	log    zerolog.Logger
	now    func() time.Time
}

func NewRecordService[T any, PT interface {
	*T
	domain.Record
}](repo ports.Repository[T], entity string, log zerolog.Logger) *RecordService[T, PT] {
	return &RecordService[T, PT]{
		repo:   repo,
		entity: entity,
		log:    log.With().Str("entity", entity).Logger(),
		now:    time.Now,
	}
}

// Create assigns a fresh id and fills defaults before persisting.
func (s *RecordService[T, PT]) Create(ctx context.Context, rec *T) (*T, error) {
	p := PT(rec)
	p.SetID(uuid.NewString())
	p.SetDefaults(s.now().UTC())

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.entity, err)
	}
	s.log.Info().Str("id", p.RecordID()).Msg("record created")
	return rec, nil
}

func (s *RecordService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.entity, err)
	}
	return rec, nil
}

func (s *RecordService[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return nil, &domain.ValidationError{Msg: "no fields to update"}
	}
	rec, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.entity, err)
	}
	return rec, nil
}

func (s *RecordService[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.entity, err)
	}
	s.log.Info().Str("id", id).Msg("record deleted")
	return nil
}

// List pages through records; limit defaults to 20 and is capped at 100.
func (s *RecordService[T, PT]) List(ctx context.Context, in ports.ListInput) (*ports.ListResult[T], error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, ports.Filter{Equals: in.Equals, Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.entity, err)
	}
	if items == nil {
		items = []*T{}
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ports.ListResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
