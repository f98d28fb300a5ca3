package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

// translateError maps driver failures onto the domain taxonomy so nothing
// above this package has to import the driver.
func translateError(entity, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return &domain.NotFoundError{Entity: entity}
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w", op, entity, domain.ErrConflict)
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, topology.ErrServerSelectionTimeout):
		return fmt.Errorf("%s %s: %w: %v", op, entity, domain.ErrTransient, err)
	default:
		return fmt.Errorf("%s %s: %w", op, entity, err)
	}
}
