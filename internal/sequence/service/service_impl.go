package service

import (
	"context"

	"github.com/vzwbeheer/ledger/internal/clock"
	sequencedomain "github.com/vzwbeheer/ledger/internal/sequence/domain"
	"github.com/vzwbeheer/ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p ServiceParam) sequencedomain.Service {
	return &Service{
		log:   p.Log.Named("sequence.service"),
		clock: p.Clock,
	}
}

// Next allocates the next sequence for fiscalYear with an optimistic
// compare-and-swap. Sequences start at 1 and strictly increase per year;
// a lost race surfaces as ErrSequenceConflict and the caller retries with a
// fresh transaction.
func (s *Service) Next(ctx context.Context, tx *gorm.DB, fiscalYear int) (int64, error) {
	if fiscalYear <= 0 {
		return 0, sequencedomain.ErrInvalidYear
	}

	current, found, err := s.loadSequence(ctx, tx, fiscalYear)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()

	if !found {
		err := tx.WithContext(ctx).Exec(
			`INSERT INTO invoice_sequences (fiscal_year, last_value, updated_at)
			 VALUES (?, ?, ?)`,
			fiscalYear,
			1,
			now,
		).Error
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				s.log.Debug("lost race on first allocation", zap.Int("fiscal_year", fiscalYear))
				return 0, sequencedomain.ErrSequenceConflict
			}
			return 0, err
		}
		return 1, nil
	}

	next := current + 1
	result := tx.WithContext(ctx).Exec(
		`UPDATE invoice_sequences
		 SET last_value = ?, updated_at = ?
		 WHERE fiscal_year = ? AND last_value = ?`,
		next,
		now,
		fiscalYear,
		current,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		s.log.Debug("lost compare-and-swap",
			zap.Int("fiscal_year", fiscalYear),
			zap.Int64("expected", current),
		)
		return 0, sequencedomain.ErrSequenceConflict
	}
	return next, nil
}

func (s *Service) loadSequence(ctx context.Context, tx *gorm.DB, fiscalYear int) (int64, bool, error) {
	var row sequencedomain.InvoiceSequence
	err := tx.WithContext(ctx).Raw(
		`SELECT fiscal_year, last_value
		 FROM invoice_sequences
		 WHERE fiscal_year = ?`,
		fiscalYear,
	).Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	if row.FiscalYear == 0 {
		return 0, false, nil
	}
	return row.LastValue, true, nil
}
