package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"meal-delivery-api/access"
	"meal-delivery-api/repository"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrProfileIncomplete   = access.ErrProfileIncomplete
	ErrForbidden           = access.ErrForbidden
	ErrVendorCannotOrder   = access.ErrVendorCannotOrder
	ErrRemote              = errors.New("remote service failure")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrConflict            = errors.New("delivery was changed by someone else, reload and retry")
	ErrRoleLocked          = errors.New("account type cannot change once meals or orders exist")
	ErrIdempotencyMismatch = errors.New("idempotency key already used for a different meal")
)

// ValidationError lists the offending request fields and why
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// fromRepo lifts repository errors into the service taxonomy
func fromRepo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
}
