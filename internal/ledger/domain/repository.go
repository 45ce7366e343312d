package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists transactions. Aggregation happens in memory, so List
// returns every stored transaction; period filtering is the service's job.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tx *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Transaction, error)
	List(ctx context.Context, db *gorm.DB) ([]Transaction, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
