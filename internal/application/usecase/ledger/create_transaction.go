package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	AccountID  uuid.UUID
	UserID     uuid.UUID
	Text       string
	Amount     decimal.Decimal
	IsIncome   bool
	CategoryID *uuid.UUID
	Transfer   string
	Date       time.Time
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *TransactionOutput
	Aggregate   *AggregateOutput
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	ledger *Ledger
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(ledger *Ledger) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		ledger: ledger,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	result, err := uc.ledger.ApplyCreate(ctx, CreateCommand{
		AccountID:  input.AccountID,
		ActorID:    input.UserID,
		Text:       input.Text,
		Amount:     input.Amount,
		IsIncome:   input.IsIncome,
		CategoryID: input.CategoryID,
		Transfer:   input.Transfer,
		Date:       input.Date,
	})
	if err != nil {
		return nil, err
	}

	return &CreateTransactionOutput{
		Transaction: toTransactionOutput(result.Transaction),
		Aggregate:   toAggregateOutput(result.Snapshot),
	}, nil
}
