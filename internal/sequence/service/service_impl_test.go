package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzwbeheer/ledger/internal/clock"
	sequencedomain "github.com/vzwbeheer/ledger/internal/sequence/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&sequencedomain.InvoiceSequence{}))
	return conn
}

func newSequencer() sequencedomain.Service {
	return NewService(ServiceParam{
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)),
	})
}

func TestNextStartsAtOne(t *testing.T) {
	conn := newTestDB(t)
	svc := newSequencer()

	var got int64
	err := conn.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = svc.Next(context.Background(), tx, 2025)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNextIsStrictlyIncreasingPerYear(t *testing.T) {
	conn := newTestDB(t)
	// Two service instances sharing storage, as two request handlers would.
	a := newSequencer()
	b := newSequencer()

	seen := map[int64]bool{}
	var prev int64
	for i := 0; i < 20; i++ {
		svc := a
		if i%2 == 1 {
			svc = b
		}
		var got int64
		err := conn.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = svc.Next(context.Background(), tx, 2025)
			return err
		})
		require.NoError(t, err)
		assert.Greater(t, got, prev)
		assert.False(t, seen[got], "duplicate sequence %d", got)
		seen[got] = true
		prev = got
	}
	assert.Equal(t, int64(20), prev)
}

func TestNextIsIndependentPerYear(t *testing.T) {
	conn := newTestDB(t)
	svc := newSequencer()

	for _, year := range []int{2024, 2025} {
		var got int64
		err := conn.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = svc.Next(context.Background(), tx, year)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), got, "year %d", year)
	}
}

func TestNextRejectsInvalidYear(t *testing.T) {
	conn := newTestDB(t)
	svc := newSequencer()

	err := conn.Transaction(func(tx *gorm.DB) error {
		_, err := svc.Next(context.Background(), tx, 0)
		return err
	})
	assert.ErrorIs(t, err, sequencedomain.ErrInvalidYear)
}

func TestRolledBackAllocationIsReissued(t *testing.T) {
	conn := newTestDB(t)
	svc := newSequencer()

	// A failed invoice creation must not burn the sequence it allocated.
	err := conn.Transaction(func(tx *gorm.DB) error {
		got, err := svc.Next(context.Background(), tx, 2025)
		require.NoError(t, err)
		require.Equal(t, int64(1), got)
		return assert.AnError
	})
	require.Error(t, err)

	var got int64
	err = conn.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = svc.Next(context.Background(), tx, 2025)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
