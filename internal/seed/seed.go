// Package seed bootstraps the database with the rows reports rely on.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	budgetdomain "github.com/vzwbeheer/ledger/internal/budget/domain"
	"github.com/vzwbeheer/ledger/internal/category"
	"gorm.io/gorm"
)

// EnsureBudgetEntries creates a zero budget entry for every section and
// bucket of the fiscal year, so budget reports are total from first boot.
// Existing entries are left untouched.
func EnsureBudgetEntries(db *gorm.DB, fiscalYear int) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if fiscalYear <= 0 {
		return budgetdomain.ErrInvalidYear
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range category.ExpenseBuckets() {
			if err := ensureEntryTx(ctx, tx, node, fiscalYear, budgetdomain.SectionExpense, string(b)); err != nil {
				return err
			}
		}
		for _, b := range category.IncomeBuckets() {
			if err := ensureEntryTx(ctx, tx, node, fiscalYear, budgetdomain.SectionIncome, string(b)); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureEntryTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, fiscalYear int, section budgetdomain.Section, cat string) error {
	var entry budgetdomain.BudgetEntry
	err := tx.WithContext(ctx).
		Where("fiscal_year = ? AND section = ? AND category = ?", fiscalYear, section, cat).
		First(&entry).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	entry = budgetdomain.BudgetEntry{
		ID:         node.Generate(),
		FiscalYear: fiscalYear,
		Section:    section,
		Category:   cat,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return tx.WithContext(ctx).Create(&entry).Error
}
