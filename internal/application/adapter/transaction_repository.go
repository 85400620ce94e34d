// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionFilter defines filter options for range queries over an account's transactions.
// Bounds are inclusive of StartDate and exclusive of EndDate.
type TransactionFilter struct {
	AccountID uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	IsIncome  *bool
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a live transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDUnscoped retrieves a transaction by its ID, including soft-deleted rows.
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves live transactions matching the filter, newest first.
	FindByFilter(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)

	// GetTotals sums live income and expense transactions matching the filter.
	GetTotals(ctx context.Context, filter TransactionFilter) (*entity.TransactionTotals, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether a transaction with the ID was ever written, deleted or not.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteByAccount hard-deletes every transaction of an account.
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
