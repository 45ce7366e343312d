// Package domain contains the transaction model and snapshot types for the
// ledger reports.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/category"
)

// TransactionKind narrows a record to income or expense.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// DefaultExpenseVATRate applies to expenses recorded without a rate.
const DefaultExpenseVATRate = 21

// Transaction is one income or expense record. Amount is gross cents and
// always positive; the kind carries the sign.
type Transaction struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	Kind        TransactionKind `gorm:"type:text;not null" json:"kind"`
	OccurredOn  time.Time       `gorm:"not null;index" json:"occurred_on"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      int64           `gorm:"not null" json:"amount"`
	RawCategory string          `gorm:"type:text;not null" json:"raw_category"`
	VATRate     *int            `gorm:"" json:"vat_rate,omitempty"`
	MemberID    *snowflake.ID   `gorm:"" json:"member_id,omitempty"`
	CompanyID   *snowflake.ID   `gorm:"" json:"company_id,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }

// SignedAmount is the amount with income positive and expenses negative.
func (t Transaction) SignedAmount() int64 {
	if t.Kind == KindExpense {
		return -t.Amount
	}
	return t.Amount
}

// ExpenseVATRate is the recorded rate, or the default for expenses without
// one.
func (t Transaction) ExpenseVATRate() int {
	if t.VATRate != nil {
		return *t.VATRate
	}
	return DefaultExpenseVATRate
}

// RunningBalanceEntry is one row of the running-balance report: the
// transaction plus the cumulative balance as of its position.
type RunningBalanceEntry struct {
	TransactionID snowflake.ID    `json:"transaction_id"`
	Kind          TransactionKind `json:"kind"`
	OccurredOn    time.Time       `json:"occurred_on"`
	Description   string          `json:"description"`
	SignedAmount  int64           `json:"signed_amount"`
	Balance       int64           `json:"balance"`
}

// LedgerSnapshot is the aggregation of the filtered transactions. Bucket
// maps are total over the closed bucket sets: every bucket appears, zero
// when nothing mapped into it.
//
// ImpliedVAT uses the VAT-inclusive convention: expense amounts are gross
// and the implied portion is amount*rate/(100+rate). Invoice totals use the
// opposite, exclusive convention; the two never reconcile.
type LedgerSnapshot struct {
	TotalIncome   int64 `json:"total_income"`
	TotalExpenses int64 `json:"total_expenses"`
	Balance       int64 `json:"balance"`

	IncomeByBucket   map[category.IncomeBucket]int64  `json:"income_by_bucket"`
	ExpensesByBucket map[category.ExpenseBucket]int64 `json:"expenses_by_bucket"`

	ImpliedVAT       int64         `json:"implied_vat"`
	ImpliedVATByRate map[int]int64 `json:"implied_vat_by_rate"`

	RunningBalance []RunningBalanceEntry `json:"running_balance"`
}
