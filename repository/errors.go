// Package repository is table access for users, meals and deliveries.
// Every method is a single equality-filtered select, insert, upsert or
// conditional update; no joins.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrConflict  = errors.New("record changed concurrently")
	ErrRemote    = errors.New("table store failure")
)

// translate maps driver errors onto the package sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
}

// isUniqueViolation catches drivers that do not translate constraint errors
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
