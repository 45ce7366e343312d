package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	budgetdomain "github.com/vzwbeheer/ledger/internal/budget/domain"
	"github.com/vzwbeheer/ledger/internal/category"
	"github.com/vzwbeheer/ledger/internal/clock"
	ledgerdomain "github.com/vzwbeheer/ledger/internal/ledger/domain"
	"github.com/vzwbeheer/ledger/internal/period"
	"github.com/vzwbeheer/ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Ledger ledgerdomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	ledger ledgerdomain.Service
}

func NewService(p ServiceParam) budgetdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("budget.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		ledger: p.Ledger,
	}
}

func (s *Service) Upsert(ctx context.Context, req budgetdomain.UpsertEntryRequest) (*budgetdomain.BudgetEntry, error) {
	if req.FiscalYear <= 0 {
		return nil, budgetdomain.ErrInvalidYear
	}
	if req.Section != budgetdomain.SectionIncome && req.Section != budgetdomain.SectionExpense {
		return nil, budgetdomain.ErrInvalidSection
	}
	if !validCategory(req.Section, req.Category) {
		return nil, budgetdomain.ErrInvalidCategory
	}
	if req.BudgetedAmount < 0 {
		return nil, budgetdomain.ErrInvalidBudgetAmount
	}

	var entry *budgetdomain.BudgetEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.setBudgeted(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Compare reports budgeted versus realized for every bucket of the year.
// Realized figures come straight from the aggregator, not from the
// denormalized copies.
func (s *Service) Compare(ctx context.Context, fiscalYear int) (*budgetdomain.Comparison, error) {
	if fiscalYear <= 0 {
		return nil, budgetdomain.ErrInvalidYear
	}

	snap, err := s.ledger.Aggregate(ctx, period.Year(fiscalYear))
	if err != nil {
		return nil, err
	}
	entries, err := s.loadYear(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}

	budgeted := make(map[budgetdomain.Section]map[string]int64)
	budgeted[budgetdomain.SectionExpense] = make(map[string]int64)
	budgeted[budgetdomain.SectionIncome] = make(map[string]int64)
	for _, e := range entries {
		budgeted[e.Section][e.Category] = e.BudgetedAmount
	}

	cmp := &budgetdomain.Comparison{FiscalYear: fiscalYear}
	for _, b := range category.ExpenseBuckets() {
		cmp.Rows = append(cmp.Rows, row(
			budgetdomain.SectionExpense, string(b),
			budgeted[budgetdomain.SectionExpense][string(b)],
			snap.ExpensesByBucket[b],
		))
	}
	for _, b := range category.IncomeBuckets() {
		cmp.Rows = append(cmp.Rows, row(
			budgetdomain.SectionIncome, string(b),
			budgeted[budgetdomain.SectionIncome][string(b)],
			snap.IncomeByBucket[b],
		))
	}
	return cmp, nil
}

// Recompute refreshes the stored realized_amount for every bucket of the
// year, inserting zero-budget entries for buckets that have none yet.
func (s *Service) Recompute(ctx context.Context, fiscalYear int) error {
	cmp, err := s.Compare(ctx, fiscalYear)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range cmp.Rows {
			if err := s.setRealized(ctx, tx, fiscalYear, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func row(section budgetdomain.Section, cat string, budgeted, realized int64) budgetdomain.ComparisonRow {
	return budgetdomain.ComparisonRow{
		Section:  section,
		Category: cat,
		Budgeted: budgeted,
		Realized: realized,
		Variance: realized - budgeted,
	}
}

func validCategory(section budgetdomain.Section, cat string) bool {
	switch section {
	case budgetdomain.SectionExpense:
		for _, b := range category.ExpenseBuckets() {
			if string(b) == cat {
				return true
			}
		}
	case budgetdomain.SectionIncome:
		for _, b := range category.IncomeBuckets() {
			if string(b) == cat {
				return true
			}
		}
	}
	return false
}

func (s *Service) loadYear(ctx context.Context, fiscalYear int) ([]budgetdomain.BudgetEntry, error) {
	var entries []budgetdomain.BudgetEntry
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, fiscal_year, section, category, budgeted_amount, realized_amount, created_at, updated_at
		 FROM budget_entries WHERE fiscal_year = ?`,
		fiscalYear,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) loadEntry(ctx context.Context, tx *gorm.DB, fiscalYear int, section budgetdomain.Section, cat string) (*budgetdomain.BudgetEntry, error) {
	var entry budgetdomain.BudgetEntry
	err := tx.WithContext(ctx).Raw(
		`SELECT id, fiscal_year, section, category, budgeted_amount, realized_amount, created_at, updated_at
		 FROM budget_entries WHERE fiscal_year = ? AND section = ? AND category = ?`,
		fiscalYear, section, cat,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (s *Service) insertEntry(ctx context.Context, tx *gorm.DB, entry *budgetdomain.BudgetEntry) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO budget_entries (id, fiscal_year, section, category, budgeted_amount, realized_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.FiscalYear, entry.Section, entry.Category,
		entry.BudgetedAmount, entry.RealizedAmount, entry.CreatedAt, entry.UpdatedAt,
	).Error
}

func (s *Service) setBudgeted(ctx context.Context, tx *gorm.DB, req budgetdomain.UpsertEntryRequest) (*budgetdomain.BudgetEntry, error) {
	existing, err := s.loadEntry(ctx, tx, req.FiscalYear, req.Section, req.Category)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if existing == nil {
		entry := &budgetdomain.BudgetEntry{
			ID:             s.genID.Generate(),
			FiscalYear:     req.FiscalYear,
			Section:        req.Section,
			Category:       req.Category,
			BudgetedAmount: req.BudgetedAmount,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.insertEntry(ctx, tx, entry); err != nil {
			if db.IsDuplicateKeyErr(err) {
				// Lost an insert race; the row exists now, update it.
				return s.updateBudgeted(ctx, tx, req, now)
			}
			return nil, err
		}
		return entry, nil
	}
	return s.updateBudgeted(ctx, tx, req, now)
}

func (s *Service) updateBudgeted(ctx context.Context, tx *gorm.DB, req budgetdomain.UpsertEntryRequest, now time.Time) (*budgetdomain.BudgetEntry, error) {
	err := tx.WithContext(ctx).Exec(
		`UPDATE budget_entries SET budgeted_amount = ?, updated_at = ?
		 WHERE fiscal_year = ? AND section = ? AND category = ?`,
		req.BudgetedAmount, now, req.FiscalYear, req.Section, req.Category,
	).Error
	if err != nil {
		return nil, err
	}
	return s.loadEntry(ctx, tx, req.FiscalYear, req.Section, req.Category)
}

func (s *Service) setRealized(ctx context.Context, tx *gorm.DB, fiscalYear int, r budgetdomain.ComparisonRow) error {
	existing, err := s.loadEntry(ctx, tx, fiscalYear, r.Section, r.Category)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	if existing == nil {
		return s.insertEntry(ctx, tx, &budgetdomain.BudgetEntry{
			ID:             s.genID.Generate(),
			FiscalYear:     fiscalYear,
			Section:        r.Section,
			Category:       r.Category,
			RealizedAmount: r.Realized,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return tx.WithContext(ctx).Exec(
		`UPDATE budget_entries SET realized_amount = ?, updated_at = ?
		 WHERE fiscal_year = ? AND section = ? AND category = ?`,
		r.Realized, now, fiscalYear, r.Section, r.Category,
	).Error
}
