package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrTransient          = errors.New("service temporarily unavailable")
)

var (
	ErrUserNotFound = &NotFoundError{Entity: "user"}
	ErrUserExists   = fmt.Errorf("user already exists: %w", ErrConflict)
)

// ForbiddenError names the role class a caller lacked.
type ForbiddenError struct {
	Required []Role
}

func (e *ForbiddenError) Error() string {
	names := make([]string, len(e.Required))
	for i, r := range e.Required {
		names[i] = string(r)
	}
	return "requires role: " + strings.Join(names, " or ")
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError reports a missing entity by kind.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// Is matches ErrNotFound and any NotFoundError for the same entity.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	var nf *NotFoundError
	if errors.As(target, &nf) {
		return nf.Entity == e.Entity
	}
	return false
}

// ValidationError is an input rejected before reaching storage.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a field-level ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
