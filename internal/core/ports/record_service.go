package ports

import (
	"context"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// ListInput carries the list endpoint's query.
type ListInput struct {
	Equals map[string]any
	Page   int
	Limit  int
}

// ListResult is one page of records.
type ListResult[T any] struct {
	Items      []*T  `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// RecordService is the use-case layer over a Repository.
type RecordService[T any] interface {
	Create(ctx context.Context, rec *T) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, in ListInput) (*ListResult[T], error)
}

type DashboardService interface {
	Admin(ctx context.Context) (*domain.AdminDashboard, error)
	Doctor(ctx context.Context, doctorID string) (*domain.DoctorDashboard, error)
}
