package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error // if set, every call returns it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["phone"].(string); ok {
		u.Phone = v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		u.UpdatedAt = v
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Count(ctx context.Context, role domain.Role) (int64, error) {
	users, err := r.List(ctx, role)
	return int64(len(users)), err
}

// ---------------------------------------------------------------------------
// Generic in-memory record repository
// ---------------------------------------------------------------------------

// memRepo matches filters against the JSON form of each record, whose field
// names equal the stored ones.
type memRepo[T any] struct {
	mu     sync.Mutex
	order  []string
	items  map[string]*T
	idOf   func(*T) string
	entity string
}

func newMemRepo[T any](entity string, idOf func(*T) string) *memRepo[T] {
	return &memRepo[T]{items: make(map[string]*T), idOf: idOf, entity: entity}
}

func (r *memRepo[T]) notFound() error { return &domain.NotFoundError{Entity: r.entity} }

func (r *memRepo[T]) Create(_ context.Context, rec *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.idOf(rec)
	if _, ok := r.items[id]; ok {
		return fmt.Errorf("%s %s: %w", r.entity, id, domain.ErrConflict)
	}
	clone := *rec
	r.items[id] = &clone
	r.order = append(r.order, id)
	return nil
}

func (r *memRepo[T]) Get(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok {
		return nil, r.notFound()
	}
	clone := *rec
	return &clone, nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, fields map[string]any) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok {
		return nil, r.notFound()
	}
	doc := toDoc(rec)
	for k, v := range fields {
		doc[k] = v
	}
	raw, _ := json.Marshal(doc)
	var updated T
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	r.items[id] = &updated
	clone := updated
	return &clone, nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return r.notFound()
	}
	delete(r.items, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRepo[T]) List(_ context.Context, f ports.Filter) ([]*T, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*T
	for _, id := range r.order {
		rec := r.items[id]
		if matches(toDoc(rec), f) {
			clone := *rec
			matched = append(matched, &clone)
		}
	}
	total := int64(len(matched))
	if f.Limit > 0 {
		start := (f.Page - 1) * f.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *memRepo[T]) Count(ctx context.Context, f ports.Filter) (int64, error) {
	f.Limit = 0
	_, total, err := r.List(ctx, f)
	return total, err
}

func toDoc(v any) map[string]any {
	raw, _ := json.Marshal(v)
	doc := make(map[string]any)
	_ = json.Unmarshal(raw, &doc)
	return doc
}

func matches(doc map[string]any, f ports.Filter) bool {
	for k, want := range f.Equals {
		if fmt.Sprint(doc[k]) != fmt.Sprint(want) {
			return false
		}
	}
	if f.DateField != "" {
		s, _ := doc[f.DateField].(string)
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil || ts.Before(f.From) || !ts.Before(f.To) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Denylist recorder
// ---------------------------------------------------------------------------

type stubDenylist struct {
	revoked map[string]time.Time
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Time)}
}

func (d *stubDenylist) Revoke(_ context.Context, token string, until time.Time) error {
	if d.err != nil {
		return d.err
	}
	d.revoked[token] = until
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := d.revoked[token]
	return ok, d.err
}
