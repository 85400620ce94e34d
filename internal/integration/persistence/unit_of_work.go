package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// unitOfWork implements the adapter.UnitOfWork interface with gorm transactions.
type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work bound to the database.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &unitOfWork{
		db: db,
	}
}

// Do runs fn with repositories bound to a single database transaction.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos adapter.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewTxRepositories(tx))
	})
}

// NewTxRepositories binds every repository to the given database handle.
func NewTxRepositories(db *gorm.DB) adapter.TxRepositories {
	return adapter.TxRepositories{
		Accounts:     NewAccountRepository(db),
		Aggregates:   NewAggregateStore(db),
		Transactions: NewTransactionRepository(db),
		Categories:   NewCategoryRepository(db),
	}
}
