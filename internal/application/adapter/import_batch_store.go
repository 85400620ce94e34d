package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// ImportBatchStore defines the interface for the transient staging store of import batches.
type ImportBatchStore interface {
	// Save stores a staged batch that expires after ttl.
	Save(ctx context.Context, batch *entity.ImportBatch, ttl time.Duration) error

	// Get returns the batch with per-row statuses applied.
	// Returns ErrImportBatchNotFound when missing or expired.
	Get(ctx context.Context, batchID uuid.UUID) (*entity.ImportBatch, error)

	// SetRowStatus records the confirmation status of one row.
	SetRowStatus(ctx context.Context, batchID uuid.UUID, rowNumber int, status entity.StagedRowStatus, message string) error

	// MarkImported flags the batch as fully confirmed.
	MarkImported(ctx context.Context, batchID uuid.UUID) error

	// Delete discards the batch and its row statuses.
	Delete(ctx context.Context, batchID uuid.UUID) error

	// AcquireConfirmLock takes the per-batch confirmation lock.
	// Returns false when another holder owns it.
	AcquireConfirmLock(ctx context.Context, batchID uuid.UUID, ttl time.Duration) (bool, error)

	// ReleaseConfirmLock releases the per-batch confirmation lock.
	ReleaseConfirmLock(ctx context.Context, batchID uuid.UUID) error
}
