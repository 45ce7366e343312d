package domain

import (
	"context"
	"errors"

	"github.com/vzwbeheer/ledger/internal/category"
)

var (
	// ErrInvalidYear rejects non-positive fiscal years.
	ErrInvalidYear = errors.New("invalid_inventory_year")
	// ErrInvalidCategory rejects categories outside the balance-sheet set.
	ErrInvalidCategory = errors.New("invalid_balance_category")
	// ErrInvalidAmount rejects zero or negative amounts.
	ErrInvalidAmount = errors.New("invalid_item_amount")
	// ErrEmptyItemType rejects blank item types.
	ErrEmptyItemType = errors.New("empty_item_type")
	// ErrItemNotFound signals an unknown item id.
	ErrItemNotFound = errors.New("inventory_item_not_found")
	// ErrInvalidItemID signals a malformed item id.
	ErrInvalidItemID = errors.New("invalid_item_id")
)

// AddItemRequest records one inventory item for a fiscal year.
type AddItemRequest struct {
	ItemType    string                 `json:"item_type"`
	Category    category.BalanceBucket `json:"category"`
	Description string                 `json:"description"`
	Amount      int64                  `json:"amount"`
	FiscalYear  int                    `json:"fiscal_year"`
}

// Service maintains inventory items and builds the balance report.
type Service interface {
	Add(ctx context.Context, req AddItemRequest) (*InventoryItem, error)
	Delete(ctx context.Context, id string) error
	BalanceReport(ctx context.Context, fiscalYear int) (*BalanceReport, error)
}
