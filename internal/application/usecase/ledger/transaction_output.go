package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionOutput represents a single transaction in the output.
type TransactionOutput struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Text       string
	Amount     decimal.Decimal
	Type       entity.TransactionType
	CategoryID *uuid.UUID
	Transfer   string
	CreatedBy  uuid.UUID
	UpdatedBy  uuid.UUID
	Date       time.Time
	UpdatedAt  time.Time
}

// AggregateOutput represents the account aggregates after an operation.
type AggregateOutput struct {
	AccountID               uuid.UUID
	Balance                 decimal.Decimal
	Income                  decimal.Decimal
	Expense                 decimal.Decimal
	IncomePercentageChange  decimal.Decimal
	ExpensePercentageChange decimal.Decimal
}

func toTransactionOutput(tx *entity.Transaction) *TransactionOutput {
	return &TransactionOutput{
		ID:         tx.ID,
		AccountID:  tx.AccountID,
		Text:       tx.Text,
		Amount:     tx.Amount,
		Type:       entity.TypeOf(tx.IsIncome),
		CategoryID: tx.CategoryID,
		Transfer:   tx.Transfer,
		CreatedBy:  tx.CreatedBy,
		UpdatedBy:  tx.UpdatedBy,
		Date:       tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

func toAggregateOutput(snapshot *entity.AggregateSnapshot) *AggregateOutput {
	if snapshot == nil {
		return nil
	}
	return &AggregateOutput{
		AccountID:               snapshot.AccountID,
		Balance:                 snapshot.Balance,
		Income:                  snapshot.Analytics.Income,
		Expense:                 snapshot.Analytics.Expense,
		IncomePercentageChange:  snapshot.Analytics.IncomePercentageChange,
		ExpensePercentageChange: snapshot.Analytics.ExpensePercentageChange,
	}
}
