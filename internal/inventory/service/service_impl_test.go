package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzwbeheer/ledger/internal/category"
	"github.com/vzwbeheer/ledger/internal/clock"
	inventorydomain "github.com/vzwbeheer/ledger/internal/inventory/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFixture(t *testing.T) inventorydomain.Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&inventorydomain.InventoryItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC))

	return NewService(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})
}

func addItem(t *testing.T, svc inventorydomain.Service, bucket category.BalanceBucket, itemType string, amount int64) *inventorydomain.InventoryItem {
	t.Helper()
	item, err := svc.Add(context.Background(), inventorydomain.AddItemRequest{
		ItemType:   itemType,
		Category:   bucket,
		Amount:     amount,
		FiscalYear: 2025,
	})
	require.NoError(t, err)
	return item
}

func findGroup(t *testing.T, report *inventorydomain.BalanceReport, bucket category.BalanceBucket) inventorydomain.BalanceGroup {
	t.Helper()
	for _, g := range report.Groups {
		if g.Category == bucket {
			return g
		}
	}
	t.Fatalf("group %s not found", bucket)
	return inventorydomain.BalanceGroup{}
}

func TestBalanceReportGroupsPerBucket(t *testing.T) {
	svc := newFixture(t)

	addItem(t, svc, category.BalanceBezittingen, "kasrekening", 150000)
	addItem(t, svc, category.BalanceBezittingen, "materiaal", 50000)
	addItem(t, svc, category.BalanceSchulden, "openstaande factuur", 30000)

	report, err := svc.BalanceReport(context.Background(), 2025)
	require.NoError(t, err)

	require.Len(t, report.Groups, len(category.BalanceBuckets()))

	bezittingen := findGroup(t, report, category.BalanceBezittingen)
	assert.Equal(t, int64(200000), bezittingen.Total)
	assert.Len(t, bezittingen.Items, 2)

	schulden := findGroup(t, report, category.BalanceSchulden)
	assert.Equal(t, int64(30000), schulden.Total)

	// Empty buckets still appear with a zero total.
	rechten := findGroup(t, report, category.BalanceRechten)
	assert.Zero(t, rechten.Total)
	assert.Empty(t, rechten.Items)
}

func TestBalanceReportScopedToYear(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	addItem(t, svc, category.BalanceBezittingen, "kasrekening", 100000)
	_, err := svc.Add(ctx, inventorydomain.AddItemRequest{
		ItemType:   "kasrekening",
		Category:   category.BalanceBezittingen,
		Amount:     999,
		FiscalYear: 2024,
	})
	require.NoError(t, err)

	report, err := svc.BalanceReport(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), findGroup(t, report, category.BalanceBezittingen).Total)
}

func TestAddValidation(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  inventorydomain.AddItemRequest
		want error
	}{
		{"bad year", inventorydomain.AddItemRequest{ItemType: "x", Category: category.BalanceBezittingen, Amount: 1}, inventorydomain.ErrInvalidYear},
		{"blank type", inventorydomain.AddItemRequest{ItemType: " ", Category: category.BalanceBezittingen, Amount: 1, FiscalYear: 2025}, inventorydomain.ErrEmptyItemType},
		{"bad category", inventorydomain.AddItemRequest{ItemType: "x", Category: "winst", Amount: 1, FiscalYear: 2025}, inventorydomain.ErrInvalidCategory},
		{"zero amount", inventorydomain.AddItemRequest{ItemType: "x", Category: category.BalanceSchulden, FiscalYear: 2025}, inventorydomain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDeleteItem(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	item := addItem(t, svc, category.BalanceVerplichtingen, "huurcontract", 60000)
	require.NoError(t, svc.Delete(ctx, item.ID.String()))

	report, err := svc.BalanceReport(ctx, 2025)
	require.NoError(t, err)
	assert.Zero(t, findGroup(t, report, category.BalanceVerplichtingen).Total)

	assert.ErrorIs(t, svc.Delete(ctx, item.ID.String()), inventorydomain.ErrItemNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "abc!"), inventorydomain.ErrInvalidItemID)
}
