package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create persists an account together with its analytics record.
	Create(ctx context.Context, account *entity.Account, analytics *entity.Analytics) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByOwner retrieves all accounts of an owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Account, error)

	// Delete removes an account and its analytics record.
	Delete(ctx context.Context, id uuid.UUID) error
}
