package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/category"
	"github.com/vzwbeheer/ledger/internal/clock"
	inventorydomain "github.com/vzwbeheer/ledger/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p ServiceParam) inventorydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Add(ctx context.Context, req inventorydomain.AddItemRequest) (*inventorydomain.InventoryItem, error) {
	if req.FiscalYear <= 0 {
		return nil, inventorydomain.ErrInvalidYear
	}
	if strings.TrimSpace(req.ItemType) == "" {
		return nil, inventorydomain.ErrEmptyItemType
	}
	if !category.ValidBalanceBucket(req.Category) {
		return nil, inventorydomain.ErrInvalidCategory
	}
	if req.Amount <= 0 {
		return nil, inventorydomain.ErrInvalidAmount
	}

	item := &inventorydomain.InventoryItem{
		ID:          s.genID.Generate(),
		ItemType:    strings.TrimSpace(req.ItemType),
		Category:    category.MapInventory(req.Category),
		Description: req.Description,
		Amount:      req.Amount,
		FiscalYear:  req.FiscalYear,
		CreatedAt:   s.clock.Now(),
	}
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO inventory_items (id, item_type, category, description, amount, fiscal_year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ItemType, item.Category, item.Description,
		item.Amount, item.FiscalYear, item.CreatedAt,
	).Error
	if err != nil {
		s.log.Error("insert inventory item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	itemID, err := snowflake.ParseString(id)
	if err != nil {
		return inventorydomain.ErrInvalidItemID
	}
	res := s.db.WithContext(ctx).Exec(`DELETE FROM inventory_items WHERE id = ?`, itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventorydomain.ErrItemNotFound
	}
	return nil
}

// BalanceReport groups the year's items by bucket. Every bucket appears in
// report order, empty ones with a zero total.
func (s *Service) BalanceReport(ctx context.Context, fiscalYear int) (*inventorydomain.BalanceReport, error) {
	if fiscalYear <= 0 {
		return nil, inventorydomain.ErrInvalidYear
	}

	var items []inventorydomain.InventoryItem
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, item_type, category, description, amount, fiscal_year, created_at
		 FROM inventory_items WHERE fiscal_year = ? ORDER BY id`,
		fiscalYear,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	byBucket := make(map[category.BalanceBucket][]inventorydomain.InventoryItem)
	for _, item := range items {
		b := category.MapInventory(item.Category)
		byBucket[b] = append(byBucket[b], item)
	}

	report := &inventorydomain.BalanceReport{FiscalYear: fiscalYear}
	for _, b := range category.BalanceBuckets() {
		group := inventorydomain.BalanceGroup{Category: b, Items: byBucket[b]}
		for _, item := range group.Items {
			group.Total += item.Amount
		}
		report.Groups = append(report.Groups, group)
	}
	return report, nil
}
