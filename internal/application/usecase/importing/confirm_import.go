package importing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DefaultConfirmLockTTL bounds how long a crashed confirmation blocks retries.
const DefaultConfirmLockTTL = 5 * time.Minute

// ConfirmImportInput identifies the batch to confirm.
type ConfirmImportInput struct {
	BatchID uuid.UUID
	UserID  uuid.UUID
}

// ConfirmImportOutput reports how far the confirmation got.
type ConfirmImportOutput struct {
	Progress entity.ImportProgress
}

// ConfirmImportUseCase replays a staged batch row by row through the ledger.
//
// Rows are applied in file order and each one commits on its own. The run
// stops at the first failing row; rows already applied stay applied and are
// skipped when the batch is confirmed again.
type ConfirmImportUseCase struct {
	store           adapter.ImportBatchStore
	ledger          *ledger.Ledger
	transactionRepo adapter.TransactionRepository
	lockTTL         time.Duration
}

// NewConfirmImportUseCase creates a new ConfirmImportUseCase instance.
func NewConfirmImportUseCase(
	store adapter.ImportBatchStore,
	txLedger *ledger.Ledger,
	transactionRepo adapter.TransactionRepository,
	lockTTL time.Duration,
) *ConfirmImportUseCase {
	if lockTTL <= 0 {
		lockTTL = DefaultConfirmLockTTL
	}
	return &ConfirmImportUseCase{
		store:           store,
		ledger:          txLedger,
		transactionRepo: transactionRepo,
		lockTTL:         lockTTL,
	}
}

// Execute confirms the batch.
func (uc *ConfirmImportUseCase) Execute(ctx context.Context, input ConfirmImportInput) (*ConfirmImportOutput, error) {
	batch, err := loadBatch(ctx, uc.store, input.BatchID)
	if err != nil {
		return nil, err
	}
	if batch.OwnerID != input.UserID {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeNotAuthorizedImport,
			"Not authorized to confirm this import",
			domainerror.ErrNotAuthorizedForAccount,
		)
	}
	if batch.IsImported {
		return nil, alreadyConfirmed()
	}

	acquired, err := uc.store.AcquireConfirmLock(ctx, batch.ID, uc.lockTTL)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal,
			"Failed to lock import",
			err,
		)
	}
	if !acquired {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInProgress,
			"Import is already being confirmed",
			domainerror.ErrImportInProgress,
		)
	}

	// Bookkeeping must survive cancellation of the request.
	bookkeeping := context.WithoutCancel(ctx)
	defer func() {
		if err := uc.store.ReleaseConfirmLock(bookkeeping, input.BatchID); err != nil {
			slog.Warn("Failed to release import lock", "batch_id", input.BatchID, "error", err)
		}
	}()

	// A confirmation that finished while we waited has discarded the batch.
	batch, err = loadBatch(ctx, uc.store, input.BatchID)
	if err != nil {
		return nil, err
	}
	if batch.IsImported {
		return nil, alreadyConfirmed()
	}

	progress := uc.apply(ctx, bookkeeping, batch)

	if progress.Remaining == 0 && progress.FailedRow == 0 && !progress.Cancelled {
		if err := uc.store.MarkImported(bookkeeping, batch.ID); err != nil {
			slog.Warn("Failed to mark import as imported", "batch_id", batch.ID, "error", err)
		}
		if err := uc.store.Delete(bookkeeping, batch.ID); err != nil {
			slog.Warn("Failed to discard confirmed import", "batch_id", batch.ID, "error", err)
		}
		progress.Completed = true
	}

	slog.Info("Import confirmation finished",
		"batch_id", batch.ID,
		"account_id", batch.AccountID,
		"applied", progress.Applied,
		"skipped", progress.Skipped,
		"failed_row", progress.FailedRow,
		"remaining", progress.Remaining,
		"cancelled", progress.Cancelled,
		"completed", progress.Completed,
	)

	return &ConfirmImportOutput{Progress: progress}, nil
}

func (uc *ConfirmImportUseCase) apply(ctx, bookkeeping context.Context, batch *entity.ImportBatch) entity.ImportProgress {
	progress := entity.ImportProgress{BatchID: batch.ID}

	for i, row := range batch.Rows {
		if ctx.Err() != nil {
			progress.Cancelled = true
			progress.Remaining = len(batch.Rows) - i
			return progress
		}

		if row.Status == entity.StagedRowApplied {
			progress.Skipped++
			continue
		}

		exists, err := uc.transactionRepo.Exists(ctx, row.TransactionID)
		if err != nil {
			if uc.interrupted(ctx, &progress, len(batch.Rows)-i) {
				return progress
			}
			uc.fail(bookkeeping, batch.ID, row, err, &progress, len(batch.Rows)-i)
			return progress
		}
		if exists {
			uc.markApplied(bookkeeping, batch.ID, row)
			progress.Skipped++
			continue
		}

		_, err = uc.ledger.ApplyCreate(ctx, ledger.CreateCommand{
			TransactionID: row.TransactionID,
			AccountID:     batch.AccountID,
			ActorID:       batch.OwnerID,
			Text:          row.Text,
			Amount:        row.Amount,
			IsIncome:      row.IsIncome,
			CategoryID:    row.CategoryID,
			Transfer:      row.Transfer,
			Date:          row.Date,
		})
		if err != nil {
			if uc.interrupted(ctx, &progress, len(batch.Rows)-i) {
				return progress
			}
			uc.fail(bookkeeping, batch.ID, row, err, &progress, len(batch.Rows)-i)
			return progress
		}

		uc.markApplied(bookkeeping, batch.ID, row)
		progress.Applied++
	}

	return progress
}

func (uc *ConfirmImportUseCase) interrupted(ctx context.Context, progress *entity.ImportProgress, remaining int) bool {
	if ctx.Err() == nil {
		return false
	}
	progress.Cancelled = true
	progress.Remaining = remaining
	return true
}

func (uc *ConfirmImportUseCase) fail(
	ctx context.Context,
	batchID uuid.UUID,
	row *entity.StagedRow,
	err error,
	progress *entity.ImportProgress,
	remaining int,
) {
	progress.FailedRow = row.RowNumber
	progress.FailedErr = err
	progress.Remaining = remaining

	row.Status = entity.StagedRowFailed
	row.Error = err.Error()
	if storeErr := uc.store.SetRowStatus(ctx, batchID, row.RowNumber, entity.StagedRowFailed, err.Error()); storeErr != nil {
		slog.Warn("Failed to record row failure", "batch_id", batchID, "row", row.RowNumber, "error", storeErr)
	}
	slog.Warn("Import row failed",
		"batch_id", batchID,
		"row", row.RowNumber,
		"kind", domainerror.KindOf(err),
		"error", err,
	)
}

// markApplied records the row outcome. A lost status write is recovered on
// the next run by the transaction existence check.
func (uc *ConfirmImportUseCase) markApplied(ctx context.Context, batchID uuid.UUID, row *entity.StagedRow) {
	row.Status = entity.StagedRowApplied
	row.Error = ""
	if err := uc.store.SetRowStatus(ctx, batchID, row.RowNumber, entity.StagedRowApplied, ""); err != nil {
		slog.Warn("Failed to record applied row", "batch_id", batchID, "row", row.RowNumber, "error", err)
	}
}

func alreadyConfirmed() error {
	return domainerror.NewImportError(
		domainerror.ErrCodeImportAlreadyConfirmed,
		"Import has already been confirmed",
		domainerror.ErrImportAlreadyConfirmed,
	)
}

func loadBatch(ctx context.Context, store adapter.ImportBatchStore, batchID uuid.UUID) (*entity.ImportBatch, error) {
	batch, err := store.Get(ctx, batchID)
	if err != nil {
		if errors.Is(err, domainerror.ErrImportBatchNotFound) {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeImportBatchNotFound,
				"Import not found or expired",
				err,
			)
		}
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal,
			"Failed to load import",
			fmt.Errorf("failed to get batch: %w", err),
		)
	}
	return batch, nil
}
