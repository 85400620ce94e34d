package ledger

import (
	"context"

	"github.com/google/uuid"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	TransactionID  uuid.UUID
	AlreadyDeleted bool
	Aggregate      *AggregateOutput
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	ledger *Ledger
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(ledger *Ledger) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		ledger: ledger,
	}
}

// Execute performs the transaction deletion.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	result, err := uc.ledger.ApplyDelete(ctx, DeleteCommand{
		TransactionID: input.TransactionID,
		ActorID:       input.UserID,
	})
	if err != nil {
		return nil, err
	}

	return &DeleteTransactionOutput{
		TransactionID:  input.TransactionID,
		AlreadyDeleted: result.AlreadyDeleted,
		Aggregate:      toAggregateOutput(result.Snapshot),
	}, nil
}
