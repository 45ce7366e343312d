package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrSequenceConflict means another writer claimed the sequence first.
	// The caller must abort its transaction and re-request a sequence; a
	// stale value is never reusable.
	ErrSequenceConflict = errors.New("sequence_conflict")

	ErrInvalidYear = errors.New("invalid_fiscal_year")
)

// Service allocates invoice sequences. Next runs inside the caller's
// transaction so the allocated value commits or rolls back together with the
// invoice that consumes it.
type Service interface {
	Next(ctx context.Context, tx *gorm.DB, fiscalYear int) (int64, error)
}
