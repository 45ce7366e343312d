package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	budgetdomain "github.com/vzwbeheer/ledger/internal/budget/domain"
	"github.com/vzwbeheer/ledger/internal/category"
	"github.com/vzwbeheer/ledger/internal/clock"
	ledgerdomain "github.com/vzwbeheer/ledger/internal/ledger/domain"
	ledgerrepo "github.com/vzwbeheer/ledger/internal/ledger/repository"
	ledgerservice "github.com/vzwbeheer/ledger/internal/ledger/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc    budgetdomain.Service
	ledger ledgerdomain.Service
	db     *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(
		&ledgerdomain.Transaction{},
		&budgetdomain.BudgetEntry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	ledgerSvc := ledgerservice.NewService(ledgerservice.ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  ledgerrepo.Provide(),
	})
	svc := NewService(ServiceParam{
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Ledger: ledgerSvc,
	})
	return &fixture{svc: svc, ledger: ledgerSvc, db: conn}
}

func (f *fixture) recordExpense(t *testing.T, rawCat string, amount int64) {
	t.Helper()
	_, err := f.ledger.Record(context.Background(), ledgerdomain.RecordTransactionRequest{
		Kind:        ledgerdomain.KindExpense,
		OccurredOn:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Description: rawCat,
		Amount:      amount,
		RawCategory: rawCat,
	})
	require.NoError(t, err)
}

func findRow(t *testing.T, cmp *budgetdomain.Comparison, section budgetdomain.Section, cat string) budgetdomain.ComparisonRow {
	t.Helper()
	for _, r := range cmp.Rows {
		if r.Section == section && r.Category == cat {
			return r
		}
	}
	t.Fatalf("row %s/%s not found", section, cat)
	return budgetdomain.ComparisonRow{}
}

func TestCompareVariance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upsert(ctx, budgetdomain.UpsertEntryRequest{
		FiscalYear:     2025,
		Section:        budgetdomain.SectionExpense,
		Category:       string(category.ExpenseDienstenDiverse),
		BudgetedAmount: 50000,
	})
	require.NoError(t, err)

	f.recordExpense(t, "huur", 60000)

	cmp, err := f.svc.Compare(ctx, 2025)
	require.NoError(t, err)

	row := findRow(t, cmp, budgetdomain.SectionExpense, string(category.ExpenseDienstenDiverse))
	assert.Equal(t, int64(50000), row.Budgeted)
	assert.Equal(t, int64(60000), row.Realized)
	assert.Equal(t, int64(10000), row.Variance)
}

func TestCompareIsTotalOverBuckets(t *testing.T) {
	f := newFixture(t)

	cmp, err := f.svc.Compare(context.Background(), 2025)
	require.NoError(t, err)

	require.Len(t, cmp.Rows, len(category.ExpenseBuckets())+len(category.IncomeBuckets()))
	for _, r := range cmp.Rows {
		assert.Zero(t, r.Budgeted, "row %s/%s", r.Section, r.Category)
		assert.Zero(t, r.Realized, "row %s/%s", r.Section, r.Category)
		assert.Zero(t, r.Variance, "row %s/%s", r.Section, r.Category)
	}
}

func TestCompareZeroFallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Realized with no budget entry: budgeted falls back to 0.
	f.recordExpense(t, "kantoormateriaal", 12000)
	// Budget entry with no transactions: realized falls back to 0.
	_, err := f.svc.Upsert(ctx, budgetdomain.UpsertEntryRequest{
		FiscalYear:     2025,
		Section:        budgetdomain.SectionIncome,
		Category:       string(category.IncomeSubsidies),
		BudgetedAmount: 80000,
	})
	require.NoError(t, err)

	cmp, err := f.svc.Compare(ctx, 2025)
	require.NoError(t, err)

	spent := findRow(t, cmp, budgetdomain.SectionExpense, string(category.ExpenseGoederenDiensten))
	assert.Equal(t, int64(0), spent.Budgeted)
	assert.Equal(t, int64(12000), spent.Realized)

	planned := findRow(t, cmp, budgetdomain.SectionIncome, string(category.IncomeSubsidies))
	assert.Equal(t, int64(80000), planned.Budgeted)
	assert.Equal(t, int64(0), planned.Realized)
	assert.Equal(t, int64(-80000), planned.Variance)
}

func TestCompareScopedToYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Record(ctx, ledgerdomain.RecordTransactionRequest{
		Kind:        ledgerdomain.KindExpense,
		OccurredOn:  time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		Description: "huur 2024",
		Amount:      99900,
		RawCategory: "huur",
	})
	require.NoError(t, err)

	cmp, err := f.svc.Compare(ctx, 2025)
	require.NoError(t, err)
	row := findRow(t, cmp, budgetdomain.SectionExpense, string(category.ExpenseDienstenDiverse))
	assert.Zero(t, row.Realized)
}

func TestUpsertReplacesBudgeted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := budgetdomain.UpsertEntryRequest{
		FiscalYear:     2025,
		Section:        budgetdomain.SectionIncome,
		Category:       string(category.IncomeLidgeld),
		BudgetedAmount: 10000,
	}
	first, err := f.svc.Upsert(ctx, req)
	require.NoError(t, err)

	req.BudgetedAmount = 25000
	second, err := f.svc.Upsert(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(25000), second.BudgetedAmount)

	var count int64
	require.NoError(t, f.db.Model(&budgetdomain.BudgetEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  budgetdomain.UpsertEntryRequest
		want error
	}{
		{"bad year", budgetdomain.UpsertEntryRequest{Section: budgetdomain.SectionIncome, Category: "lidgeld"}, budgetdomain.ErrInvalidYear},
		{"bad section", budgetdomain.UpsertEntryRequest{FiscalYear: 2025, Section: "transfer", Category: "lidgeld"}, budgetdomain.ErrInvalidSection},
		{"income category in expense section", budgetdomain.UpsertEntryRequest{FiscalYear: 2025, Section: budgetdomain.SectionExpense, Category: "lidgeld"}, budgetdomain.ErrInvalidCategory},
		{"unknown category", budgetdomain.UpsertEntryRequest{FiscalYear: 2025, Section: budgetdomain.SectionIncome, Category: "mystery"}, budgetdomain.ErrInvalidCategory},
		{"negative amount", budgetdomain.UpsertEntryRequest{FiscalYear: 2025, Section: budgetdomain.SectionIncome, Category: "lidgeld", BudgetedAmount: -1}, budgetdomain.ErrInvalidBudgetAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Upsert(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRecomputePersistsRealized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.recordExpense(t, "huur", 30000)
	require.NoError(t, f.svc.Recompute(ctx, 2025))

	var entries []budgetdomain.BudgetEntry
	require.NoError(t, f.db.Where("fiscal_year = ?", 2025).Find(&entries).Error)
	// One entry per bucket in both sections.
	assert.Len(t, entries, len(category.ExpenseBuckets())+len(category.IncomeBuckets()))

	var stored budgetdomain.BudgetEntry
	require.NoError(t, f.db.Where(
		"fiscal_year = ? AND section = ? AND category = ?",
		2025, budgetdomain.SectionExpense, string(category.ExpenseDienstenDiverse),
	).First(&stored).Error)
	assert.Equal(t, int64(30000), stored.RealizedAmount)
	assert.Zero(t, stored.BudgetedAmount)

	// Recompute keeps budgeted amounts intact.
	_, err := f.svc.Upsert(ctx, budgetdomain.UpsertEntryRequest{
		FiscalYear:     2025,
		Section:        budgetdomain.SectionExpense,
		Category:       string(category.ExpenseDienstenDiverse),
		BudgetedAmount: 40000,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Recompute(ctx, 2025))
	require.NoError(t, f.db.Where(
		"fiscal_year = ? AND section = ? AND category = ?",
		2025, budgetdomain.SectionExpense, string(category.ExpenseDienstenDiverse),
	).First(&stored).Error)
	assert.Equal(t, int64(40000), stored.BudgetedAmount)
	assert.Equal(t, int64(30000), stored.RealizedAmount)
}
