// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is a member or company invoice. Exactly one of MemberID and
// CompanyID is set. InvoiceSequence is unique within InvoiceYear and
// InvoiceNumber is a pure function of (year, sequence).
//
// All amounts are cents. TotalAmount == SubtotalAmount + VATAmount always
// holds; line VAT is rounded per line before summing, and the sums are not
// re-rounded.
type Invoice struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	MemberID        *snowflake.ID     `gorm:"index" json:"member_id,omitempty"`
	CompanyID       *snowflake.ID     `gorm:"index" json:"company_id,omitempty"`
	InvoiceYear     int               `gorm:"not null;uniqueIndex:ux_invoices_year_seq" json:"invoice_year"`
	InvoiceSequence int64             `gorm:"not null;uniqueIndex:ux_invoices_year_seq" json:"invoice_sequence"`
	InvoiceNumber   string            `gorm:"type:text;not null;uniqueIndex:ux_invoices_number" json:"invoice_number"`
	InvoiceDate     time.Time         `gorm:"not null" json:"invoice_date"`
	DueDate         time.Time         `gorm:"not null" json:"due_date"`
	Status          InvoiceStatus     `gorm:"type:text;not null;default:'draft';index" json:"status"`
	SubtotalAmount  int64             `gorm:"not null;default:0" json:"subtotal_amount"`
	VATAmount       int64             `gorm:"not null;default:0" json:"vat_amount"`
	TotalAmount     int64             `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount      int64             `gorm:"not null;default:0" json:"paid_amount"`
	SentAt          *time.Time        `gorm:"" json:"sent_at,omitempty"`
	PaidAt          *time.Time        `gorm:"" json:"paid_at,omitempty"`
	LastReminderAt  *time.Time        `gorm:"" json:"last_reminder_at,omitempty"`
	ReminderCount   int               `gorm:"not null;default:0" json:"reminder_count"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lines []InvoiceLine `gorm:"-" json:"lines,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one line on an invoice. TotalAmount is derived:
// quantity * unit_price plus the per-line rounded VAT.
type InvoiceLine struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_invoice_lines_sort" json:"invoice_id"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Quantity    int64        `gorm:"not null" json:"quantity"`
	UnitPrice   int64        `gorm:"not null" json:"unit_price"`
	VATRate     int          `gorm:"not null" json:"vat_rate"`
	SortOrder   int          `gorm:"not null;uniqueIndex:ux_invoice_lines_sort" json:"sort_order"`
	TotalAmount int64        `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }
