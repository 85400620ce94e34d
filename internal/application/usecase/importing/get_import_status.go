package importing

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// GetImportStatusInput identifies a staged batch.
type GetImportStatusInput struct {
	BatchID uuid.UUID
	UserID  uuid.UUID
}

// GetImportStatusOutput reports the batch with per-row status counts.
type GetImportStatusOutput struct {
	Batch   *entity.ImportBatch
	Pending int
	Applied int
	Failed  int
}

// GetImportStatusUseCase returns a staged batch and its per-row progress.
type GetImportStatusUseCase struct {
	store adapter.ImportBatchStore
}

// NewGetImportStatusUseCase creates a new GetImportStatusUseCase instance.
func NewGetImportStatusUseCase(store adapter.ImportBatchStore) *GetImportStatusUseCase {
	return &GetImportStatusUseCase{
		store: store,
	}
}

// Execute loads the batch.
func (uc *GetImportStatusUseCase) Execute(ctx context.Context, input GetImportStatusInput) (*GetImportStatusOutput, error) {
	batch, err := loadBatch(ctx, uc.store, input.BatchID)
	if err != nil {
		return nil, err
	}
	if batch.OwnerID != input.UserID {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeNotAuthorizedImport,
			"Not authorized to view this import",
			domainerror.ErrNotAuthorizedForAccount,
		)
	}

	output := &GetImportStatusOutput{Batch: batch}
	for _, row := range batch.Rows {
		switch row.Status {
		case entity.StagedRowApplied:
			output.Applied++
		case entity.StagedRowFailed:
			output.Failed++
		default:
			output.Pending++
		}
	}
	return output, nil
}
