package importing

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkerConcurrency is the number of accounts confirmed in parallel.
const DefaultWorkerConcurrency = 3

// BulkConfirmImportsInput lists the batches to confirm.
type BulkConfirmImportsInput struct {
	BatchIDs []uuid.UUID
	UserID   uuid.UUID
}

// BatchResult is the outcome of one batch in a bulk confirmation.
type BatchResult struct {
	BatchID uuid.UUID
	Output  *ConfirmImportOutput
	Err     error
}

// BulkConfirmImportsOutput holds one result per requested batch, in request order.
type BulkConfirmImportsOutput struct {
	Results []BatchResult
}

// BulkConfirmImportsUseCase confirms many batches with a bounded worker pool.
// Batches that target the same account run one after another in a single
// worker so only independent accounts are confirmed concurrently.
type BulkConfirmImportsUseCase struct {
	confirm     *ConfirmImportUseCase
	concurrency int
}

// NewBulkConfirmImportsUseCase creates a new BulkConfirmImportsUseCase instance.
func NewBulkConfirmImportsUseCase(confirm *ConfirmImportUseCase, concurrency int) *BulkConfirmImportsUseCase {
	if concurrency <= 0 {
		concurrency = DefaultWorkerConcurrency
	}
	return &BulkConfirmImportsUseCase{
		confirm:     confirm,
		concurrency: concurrency,
	}
}

// Execute confirms the batches. Per-batch failures are reported in the
// results and do not stop the other workers.
func (uc *BulkConfirmImportsUseCase) Execute(ctx context.Context, input BulkConfirmImportsInput) (*BulkConfirmImportsOutput, error) {
	results := make([]BatchResult, len(input.BatchIDs))

	groups := make(map[uuid.UUID][]int)
	var order []uuid.UUID
	for i, batchID := range input.BatchIDs {
		results[i].BatchID = batchID

		batch, err := loadBatch(ctx, uc.confirm.store, batchID)
		if err != nil {
			results[i].Err = err
			continue
		}
		if _, ok := groups[batch.AccountID]; !ok {
			order = append(order, batch.AccountID)
		}
		groups[batch.AccountID] = append(groups[batch.AccountID], i)
	}

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for _, accountID := range order {
		indexes := groups[accountID]
		g.Go(func() error {
			for _, i := range indexes {
				if ctx.Err() != nil {
					results[i].Err = ctx.Err()
					continue
				}
				out, err := uc.confirm.Execute(ctx, ConfirmImportInput{
					BatchID: input.BatchIDs[i],
					UserID:  input.UserID,
				})
				results[i].Output = out
				results[i].Err = err
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("Bulk import confirmation finished",
		"batches", len(input.BatchIDs),
		"accounts", len(order),
		"concurrency", uc.concurrency,
	)

	return &BulkConfirmImportsOutput{Results: results}, nil
}
