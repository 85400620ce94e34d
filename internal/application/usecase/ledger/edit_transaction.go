package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// EditTransactionInput represents the input for a partial transaction update.
// Nil fields are left unchanged.
type EditTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Text          *string
	Amount        *decimal.Decimal
	IsIncome      *bool
	CategoryID    *uuid.UUID
	ClearCategory bool
	Transfer      *string
	Date          *time.Time
}

// EditTransactionOutput represents the output of a transaction update.
type EditTransactionOutput struct {
	Transaction *TransactionOutput
	Aggregate   *AggregateOutput
}

// EditTransactionUseCase handles transaction updates.
type EditTransactionUseCase struct {
	ledger *Ledger
}

// NewEditTransactionUseCase creates a new EditTransactionUseCase instance.
func NewEditTransactionUseCase(ledger *Ledger) *EditTransactionUseCase {
	return &EditTransactionUseCase{
		ledger: ledger,
	}
}

// Execute performs the transaction update.
func (uc *EditTransactionUseCase) Execute(ctx context.Context, input EditTransactionInput) (*EditTransactionOutput, error) {
	if input.Text == nil && input.Amount == nil && input.IsIncome == nil && input.CategoryID == nil &&
		!input.ClearCategory && input.Transfer == nil && input.Date == nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeMissingTransactionField,
			"At least one field must be provided",
			nil,
		)
	}

	result, err := uc.ledger.ApplyEdit(ctx, EditCommand{
		TransactionID: input.TransactionID,
		ActorID:       input.UserID,
		Text:          input.Text,
		Amount:        input.Amount,
		IsIncome:      input.IsIncome,
		CategoryID:    input.CategoryID,
		ClearCategory: input.ClearCategory,
		Transfer:      input.Transfer,
		Date:          input.Date,
	})
	if err != nil {
		return nil, err
	}

	return &EditTransactionOutput{
		Transaction: toTransactionOutput(result.Transaction),
		Aggregate:   toAggregateOutput(result.Snapshot),
	}, nil
}
