package ports

import (
	"context"
	"time"
)

// Filter carries the query parameters shared by every record listing.
type Filter struct {
	// Equals holds exact-match field constraints (e.g. "doctor_id").
	Equals map[string]any
	// DateField, when set, bounds that field to [From, To).
	DateField string
	From      time.Time
	To        time.Time
	Page      int // 1-based
	Limit     int // 0 = no paging
}

// Repository is the generic persistence port for clinical records.
type Repository[T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, id string) (*T, error)
	// Update applies fields and returns the stored record after the change.
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of records matching filter and the total match count.
	List(ctx context.Context, filter Filter) ([]*T, int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
