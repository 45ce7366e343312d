package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/category"
	"github.com/vzwbeheer/ledger/internal/clock"
	ledgerdomain "github.com/vzwbeheer/ledger/internal/ledger/domain"
	"github.com/vzwbeheer/ledger/internal/period"
	"github.com/vzwbeheer/ledger/pkg/money"
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
	Repo  ledgerdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  ledgerdomain.Repository
}

func NewService(p ServiceParam) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req ledgerdomain.RecordTransactionRequest) (*ledgerdomain.Transaction, error) {
	if req.Kind != ledgerdomain.KindIncome && req.Kind != ledgerdomain.KindExpense {
		return nil, ledgerdomain.ErrInvalidKind
	}
	if req.Amount <= 0 {
		return nil, ledgerdomain.ErrInvalidAmount
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ledgerdomain.ErrEmptyDescription
	}
	if req.VATRate != nil && *req.VATRate < 0 {
		return nil, ledgerdomain.ErrInvalidVATRate
	}

	occurredOn := req.OccurredOn
	if occurredOn.IsZero() {
		occurredOn = s.clock.Now()
	}

	tx := &ledgerdomain.Transaction{
		ID:          s.genID.Generate(),
		Kind:        req.Kind,
		OccurredOn:  occurredOn,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		RawCategory: req.RawCategory,
		VATRate:     req.VATRate,
		MemberID:    req.MemberID,
		CompanyID:   req.CompanyID,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, tx); err != nil {
		s.log.Error("insert transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	txID, err := snowflake.ParseString(id)
	if err != nil {
		return ledgerdomain.ErrInvalidTransactionID
	}
	existing, err := s.repo.FindByID(ctx, s.db, txID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ledgerdomain.ErrTransactionNotFound
	}
	return s.repo.Delete(ctx, s.db, txID)
}

// Aggregate loads every transaction and reduces the ones the filter admits
// into a snapshot.
func (s *Service) Aggregate(ctx context.Context, filter period.Filter) (*ledgerdomain.LedgerSnapshot, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	txs, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	snap := Snapshot(txs, filter)
	return &snap, nil
}

// Snapshot reduces the transactions admitted by the filter into bucket
// totals, implied VAT and a running balance. It is deterministic: ordering
// of the input slice does not affect the result.
func Snapshot(txs []ledgerdomain.Transaction, filter period.Filter) ledgerdomain.LedgerSnapshot {
	snap := ledgerdomain.LedgerSnapshot{
		IncomeByBucket:   make(map[category.IncomeBucket]int64),
		ExpensesByBucket: make(map[category.ExpenseBucket]int64),
		ImpliedVATByRate: make(map[int]int64),
	}
	for _, b := range category.IncomeBuckets() {
		snap.IncomeByBucket[b] = 0
	}
	for _, b := range category.ExpenseBuckets() {
		snap.ExpensesByBucket[b] = 0
	}

	var included []ledgerdomain.Transaction
	for _, tx := range txs {
		if !period.Includes(filter, tx.OccurredOn) {
			continue
		}
		included = append(included, tx)

		switch tx.Kind {
		case ledgerdomain.KindIncome:
			snap.TotalIncome += tx.Amount
			snap.IncomeByBucket[category.MapIncome(tx.RawCategory)] += tx.Amount
		case ledgerdomain.KindExpense:
			snap.TotalExpenses += tx.Amount
			snap.ExpensesByBucket[category.MapExpense(tx.RawCategory)] += tx.Amount

			rate := tx.ExpenseVATRate()
			if rate > 0 {
				// Gross amounts: the VAT portion is amount*r/(100+r).
				vat := money.DivRoundHalfEven(tx.Amount*int64(rate), int64(100+rate))
				snap.ImpliedVAT += vat
				snap.ImpliedVATByRate[rate] += vat
			}
		}
	}
	snap.Balance = snap.TotalIncome - snap.TotalExpenses
	snap.RunningBalance = runningBalance(included)
	return snap
}

// runningBalance orders transactions newest first and attaches suffix sums,
// so the oldest entry carries only its own signed amount and the newest
// carries the period balance. Snowflake IDs break date ties in creation
// order.
func runningBalance(txs []ledgerdomain.Transaction) []ledgerdomain.RunningBalanceEntry {
	ordered := make([]ledgerdomain.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].OccurredOn.Equal(ordered[j].OccurredOn) {
			return ordered[i].OccurredOn.After(ordered[j].OccurredOn)
		}
		return ordered[i].ID > ordered[j].ID
	})

	entries := make([]ledgerdomain.RunningBalanceEntry, len(ordered))
	var sum int64
	for i := len(ordered) - 1; i >= 0; i-- {
		sum += ordered[i].SignedAmount()
		entries[i] = ledgerdomain.RunningBalanceEntry{
			TransactionID: ordered[i].ID,
			Kind:          ordered[i].Kind,
			OccurredOn:    ordered[i].OccurredOn,
			Description:   ordered[i].Description,
			SignedAmount:  ordered[i].SignedAmount(),
			Balance:       sum,
		}
	}
	return entries
}
