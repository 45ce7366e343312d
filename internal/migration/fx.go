package migration

import (
	budgetdomain "github.com/vzwbeheer/ledger/internal/budget/domain"
	"github.com/vzwbeheer/ledger/internal/config"
	inventorydomain "github.com/vzwbeheer/ledger/internal/inventory/domain"
	invoicedomain "github.com/vzwbeheer/ledger/internal/invoice/domain"
	ledgerdomain "github.com/vzwbeheer/ledger/internal/ledger/domain"
	"github.com/vzwbeheer/ledger/internal/seed"
	sequencedomain "github.com/vzwbeheer/ledger/internal/sequence/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned SQL migrations target postgres; other
			// dialects get the schema straight from the models.
			if err := conn.AutoMigrate(
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceLine{},
				&sequencedomain.InvoiceSequence{},
				&ledgerdomain.Transaction{},
				&budgetdomain.BudgetEntry{},
				&inventorydomain.InventoryItem{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureBudgetEntries(conn, cfg.FiscalYear)
	}),
)
