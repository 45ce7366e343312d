package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidYear rejects non-positive fiscal years.
	ErrInvalidYear = errors.New("invalid_fiscal_year")
	// ErrInvalidSection rejects sections outside income/expense.
	ErrInvalidSection = errors.New("invalid_budget_section")
	// ErrInvalidCategory rejects categories outside the section's bucket set.
	ErrInvalidCategory = errors.New("invalid_budget_category")
	// ErrInvalidBudgetAmount rejects negative budgeted amounts.
	ErrInvalidBudgetAmount = errors.New("invalid_budget_amount")
)

// UpsertEntryRequest sets the budgeted amount for one bucket of one year.
type UpsertEntryRequest struct {
	FiscalYear     int     `json:"fiscal_year"`
	Section        Section `json:"section"`
	Category       string  `json:"category"`
	BudgetedAmount int64   `json:"budgeted_amount"`
}

// Service maintains budget entries and compares them against the ledger.
// It never mutates transactions.
type Service interface {
	Upsert(ctx context.Context, req UpsertEntryRequest) (*BudgetEntry, error)
	Compare(ctx context.Context, fiscalYear int) (*Comparison, error)
	Recompute(ctx context.Context, fiscalYear int) error
}
