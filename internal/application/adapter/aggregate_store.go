package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// AggregateStore reads and writes the (Account.balance, Analytics) pair of one account.
type AggregateStore interface {
	// Get returns the current snapshot. Inside a unit of work the rows stay
	// locked until the transaction ends where the database supports it.
	Get(ctx context.Context, accountID uuid.UUID) (*entity.AggregateSnapshot, error)

	// ApplyDelta applies the delta to both rows and returns the new snapshot.
	// It fails with ErrInsufficientBalance and writes nothing when a negative
	// balance delta would leave the balance below zero, and with
	// ErrConcurrentAggregateUpdate when the account row changed underneath.
	ApplyDelta(ctx context.Context, accountID uuid.UUID, delta entity.AggregateDelta) (*entity.AggregateSnapshot, error)
}
