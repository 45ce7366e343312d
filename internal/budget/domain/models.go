// Package domain contains the budget entry model and comparison types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Section splits the budget into its income and expense halves.
type Section string

const (
	SectionIncome  Section = "income"
	SectionExpense Section = "expense"
)

// BudgetEntry holds the budgeted amount for one bucket of one fiscal year.
// RealizedAmount is a denormalized copy refreshed by Recompute; Compare
// always reports live ledger figures.
type BudgetEntry struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	FiscalYear     int          `gorm:"not null;uniqueIndex:ux_budget_entries_year_section_category" json:"fiscal_year"`
	Section        Section      `gorm:"type:text;not null;uniqueIndex:ux_budget_entries_year_section_category" json:"section"`
	Category       string       `gorm:"type:text;not null;uniqueIndex:ux_budget_entries_year_section_category" json:"category"`
	BudgetedAmount int64        `gorm:"not null;default:0" json:"budgeted_amount"`
	RealizedAmount int64        `gorm:"not null;default:0" json:"realized_amount"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BudgetEntry) TableName() string { return "budget_entries" }

// ComparisonRow is one line of the budget-versus-realized report.
type ComparisonRow struct {
	Section  Section `json:"section"`
	Category string  `json:"category"`
	Budgeted int64   `json:"budgeted"`
	Realized int64   `json:"realized"`
	Variance int64   `json:"variance"`
}

// Comparison is the full report for one fiscal year: one row per bucket in
// each section, expense buckets first, in report order.
type Comparison struct {
	FiscalYear int             `json:"fiscal_year"`
	Rows       []ComparisonRow `json:"rows"`
}
