// Package domain contains the inventory item model and balance report types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/category"
)

// InventoryItem is one line of the year-end balance inventory: a
// possession, debt, right or obligation valued in cents.
type InventoryItem struct {
	ID          snowflake.ID           `gorm:"primaryKey" json:"id"`
	ItemType    string                 `gorm:"type:text;not null" json:"item_type"`
	Category    category.BalanceBucket `gorm:"type:text;not null" json:"category"`
	Description string                 `gorm:"type:text" json:"description"`
	Amount      int64                  `gorm:"not null" json:"amount"`
	FiscalYear  int                    `gorm:"not null;index:ix_inventory_items_year" json:"fiscal_year"`
	CreatedAt   time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InventoryItem) TableName() string { return "inventory_items" }

// BalanceGroup is one bucket of the balance report with its items and
// total.
type BalanceGroup struct {
	Category category.BalanceBucket `json:"category"`
	Total    int64                  `json:"total"`
	Items    []InventoryItem        `json:"items"`
}

// BalanceReport groups a year's inventory per balance bucket. Every bucket
// appears, empty ones with a zero total.
type BalanceReport struct {
	FiscalYear int            `json:"fiscal_year"`
	Groups     []BalanceGroup `json:"groups"`
}
