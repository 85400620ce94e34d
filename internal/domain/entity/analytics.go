package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Analytics is the denormalized per-account income/expense summary.
//
// PreviousIncome and PreviousExpense hold the magnitude of the last delta
// applied to the respective field, not a prior-period total.
type Analytics struct {
	ID                      uuid.UUID
	AccountID               uuid.UUID
	Income                  decimal.Decimal
	Expense                 decimal.Decimal
	Balance                 decimal.Decimal // Always Income - Expense
	PreviousIncome          decimal.Decimal
	PreviousExpense         decimal.Decimal
	IncomePercentageChange  decimal.Decimal
	ExpensePercentageChange decimal.Decimal
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NewAnalytics creates a zeroed Analytics record for an account.
func NewAnalytics(accountID uuid.UUID) *Analytics {
	now := time.Now().UTC()

	return &Analytics{
		ID:        uuid.New(),
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
