package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// LineInput is a line as submitted by the caller. UnitPrice is cents.
type LineInput struct {
	Description string
	Quantity    int64
	UnitPrice   int64
	VATRate     int
	SortOrder   int
}

type CreateInvoiceRequest struct {
	MemberID    *snowflake.ID
	CompanyID   *snowflake.ID
	InvoiceDate time.Time
	// DueDate defaults to InvoiceDate plus the configured due-in days.
	DueDate *time.Time
	Notes   string
	Lines   []LineInput
}

type EditLinesRequest struct {
	InvoiceID string
	Lines     []LineInput
}

type MarkPaidRequest struct {
	InvoiceID string
	// PaidAmount defaults to the invoice total when nil.
	PaidAmount *int64
}

type ListInvoiceRequest struct {
	Status      *InvoiceStatus
	InvoiceYear *int
	MemberID    *snowflake.ID
	CompanyID   *snowflake.ID
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

// Service is the invoice lifecycle: draft -> sent -> {paid, overdue},
// overdue -> sent (re-send) or paid, paid terminal. Overdue is externally
// driven; the engine accepts it via MarkOverdue but never infers it.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	EditLines(ctx context.Context, req EditLinesRequest) (Invoice, error)
	Send(ctx context.Context, id string) (Invoice, error)
	Remind(ctx context.Context, id string) (Invoice, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (Invoice, error)
	MarkOverdue(ctx context.Context, id string) (Invoice, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
}

var (
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrInvalidInvoiceID   = errors.New("invalid_invoice_id")
	ErrInvoiceNotDraft    = errors.New("invoice_not_draft")
	ErrInvoiceAlreadyPaid = errors.New("invoice_already_paid")
	ErrInvoiceNotSent     = errors.New("invoice_not_sent")

	ErrMissingCustomerRef = errors.New("missing_customer_ref")
	ErrBothCustomerRefs   = errors.New("both_customer_refs")
	ErrNoLines            = errors.New("no_lines")
	ErrEmptyDescription   = errors.New("empty_line_description")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidUnitPrice   = errors.New("invalid_unit_price")
	ErrInvalidVATRate     = errors.New("invalid_vat_rate")
	ErrDuplicateSortOrder = errors.New("duplicate_sort_order")
	ErrInvalidDueDate     = errors.New("invalid_due_date")
	ErrInvalidPaidAmount  = errors.New("invalid_paid_amount")
)
