package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/period"
)

var (
	// ErrInvalidAmount rejects zero or negative transaction amounts.
	ErrInvalidAmount = errors.New("invalid_amount")
	// ErrInvalidKind rejects kinds outside income/expense.
	ErrInvalidKind = errors.New("invalid_transaction_kind")
	// ErrInvalidVATRate rejects negative VAT rates.
	ErrInvalidVATRate = errors.New("invalid_transaction_vat_rate")
	// ErrEmptyDescription rejects blank descriptions.
	ErrEmptyDescription = errors.New("empty_transaction_description")
	// ErrTransactionNotFound signals an unknown transaction id.
	ErrTransactionNotFound = errors.New("transaction_not_found")
	// ErrInvalidTransactionID signals a malformed transaction id.
	ErrInvalidTransactionID = errors.New("invalid_transaction_id")
)

// RecordTransactionRequest creates one income or expense record.
type RecordTransactionRequest struct {
	Kind        TransactionKind `json:"kind"`
	OccurredOn  time.Time       `json:"occurred_on"`
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`
	RawCategory string          `json:"raw_category"`
	VATRate     *int            `json:"vat_rate,omitempty"`
	MemberID    *snowflake.ID   `json:"member_id,omitempty"`
	CompanyID   *snowflake.ID   `json:"company_id,omitempty"`
}

// Service records transactions and produces ledger reports.
type Service interface {
	Record(ctx context.Context, req RecordTransactionRequest) (*Transaction, error)
	Delete(ctx context.Context, id string) error
	Aggregate(ctx context.Context, filter period.Filter) (*LedgerSnapshot, error)
}
