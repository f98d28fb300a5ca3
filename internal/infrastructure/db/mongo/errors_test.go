package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

func TestTranslateError(t *testing.T) {
	if translateError("appointment", "find", nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	err := translateError("appointment", "find", mongo.ErrNoDocuments)
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "appointment not found" {
		t.Fatalf("unexpected not-found translation: %v", err)
	}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	if err := translateError("user", "insert", dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := translateError("billing", "list", fmt.Errorf("query: %w", context.DeadlineExceeded)); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}

	other := errors.New("boom")
	if err := translateError("stock", "list", other); !errors.Is(err, other) || errors.Is(err, domain.ErrTransient) {
		t.Fatalf("unexpected translation of unknown error: %v", err)
	}
}

func TestBuildFilter(t *testing.T) {
	from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	got := buildFilter(ports.Filter{
		Equals:    map[string]any{"doctor_id": "d-1", "status": "Upcoming"},
		DateField: "date",
		From:      from,
		To:        to,
	})

	if got["doctor_id"] != "d-1" || got["status"] != "Upcoming" {
		t.Fatalf("equality constraints missing: %v", got)
	}
	rng, ok := got["date"].(bson.M)
	if !ok || rng["$gte"] != from || rng["$lt"] != to {
		t.Fatalf("unexpected date range: %v", got["date"])
	}

	if len(buildFilter(ports.Filter{})) != 0 {
		t.Fatalf("empty filter should match everything")
	}
}

func TestRoleFilter(t *testing.T) {
	if len(roleFilter("")) != 0 {
		t.Fatalf("empty role should not filter")
	}
	if roleFilter(domain.RoleDoctor)["role"] != domain.RoleDoctor {
		t.Fatalf("expected role constraint")
	}
}
