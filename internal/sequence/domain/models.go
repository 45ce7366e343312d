// Package domain contains the per-fiscal-year invoice sequence state.
package domain

import "time"

// InvoiceSequence tracks the last issued invoice sequence for one fiscal
// year. last_value only ever grows; allocation is a compare-and-swap so two
// writers can never both claim the same value.
type InvoiceSequence struct {
	FiscalYear int       `gorm:"primaryKey"`
	LastValue  int64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceSequence) TableName() string { return "invoice_sequences" }
