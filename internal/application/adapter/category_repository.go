package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindVisible retrieves global categories and the owner's categories.
	FindVisible(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error)

	// FindByNameFuzzy finds the category a free-text name refers to among global and
	// owner categories, preferring the owner's. Returns nil when nothing matches.
	FindByNameFuzzy(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Category, error)

	// Upsert inserts the category unless one with the same scope and normalized
	// name exists, and returns the stored row either way.
	Upsert(ctx context.Context, category *entity.Category) (*entity.Category, error)
}
