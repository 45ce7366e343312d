package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO transactions (id, kind, occurred_on, description, amount, raw_category, vat_rate, member_id, company_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.Kind,
		tx.OccurredOn,
		tx.Description,
		tx.Amount,
		tx.RawCategory,
		tx.VATRate,
		tx.MemberID,
		tx.CompanyID,
		tx.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, kind, occurred_on, description, amount, raw_category, vat_rate, member_id, company_id, created_at
		 FROM transactions WHERE id = ?`,
		id,
	).Scan(&tx).Error
	if err != nil {
		return nil, err
	}
	if tx.ID == 0 {
		return nil, nil
	}
	return &tx, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, kind, occurred_on, description, amount, raw_category, vat_rate, member_id, company_id, created_at
		 FROM transactions`,
	).Scan(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM transactions WHERE id = ?`, id,
	).Error
}
