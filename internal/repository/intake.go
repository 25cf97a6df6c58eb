// Package repository contains the data access layer for intake records.
// Implementations live in subpackages (e.g., postgres).
package repository

import (
	"context"
	"errors"

	"healthe/internal/model"
)

// ErrDuplicateRefID reports a unique-constraint violation on ref_id. It is
// distinguishable from other storage failures so a caller could choose to
// regenerate and retry; the current service deliberately does not.
var ErrDuplicateRefID = errors.New("duplicate ref_id")

// IntakeRepository defines persistence for intake records. Strictly SQL
// operations, no business logic.
type IntakeRepository interface {
	// Create inserts a new intake record atomically and returns the stored
	// row including the DB-assigned surrogate ID. A duplicate ref_id fails
	// with ErrDuplicateRefID.
	Create(ctx context.Context, rec *model.IntakeRecord) (*model.IntakeRecord, error)

	// FindByRefID returns the record with the exact (case-sensitive) ref_id,
	// or sql.ErrNoRows if none exists.
	FindByRefID(ctx context.Context, refID string) (*model.IntakeRecord, error)
}
