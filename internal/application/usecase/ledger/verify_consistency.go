package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// Drift describes one aggregate value that disagrees with the transaction log.
type Drift struct {
	Field    string
	Stored   decimal.Decimal
	Expected decimal.Decimal
}

// VerifyConsistencyInput represents the input for an aggregate audit.
type VerifyConsistencyInput struct {
	AccountID uuid.UUID
	// UserID restricts the audit to the account owner. Nil skips the check.
	UserID *uuid.UUID
}

// VerifyConsistencyOutput reports the stored and recomputed aggregates.
type VerifyConsistencyOutput struct {
	AccountID        uuid.UUID
	Consistent       bool
	StoredBalance    decimal.Decimal
	ExpectedBalance  decimal.Decimal
	IncomeTotal      decimal.Decimal
	ExpenseTotal     decimal.Decimal
	TransactionCount int64
	Drifts           []Drift
}

// VerifyConsistencyUseCase recomputes an account's aggregates from its live
// transactions and compares them with the stored values. It never writes.
type VerifyConsistencyUseCase struct {
	uow adapter.UnitOfWork
}

// NewVerifyConsistencyUseCase creates a new VerifyConsistencyUseCase instance.
func NewVerifyConsistencyUseCase(uow adapter.UnitOfWork) *VerifyConsistencyUseCase {
	return &VerifyConsistencyUseCase{
		uow: uow,
	}
}

// Execute performs the audit.
func (uc *VerifyConsistencyUseCase) Execute(ctx context.Context, input VerifyConsistencyInput) (*VerifyConsistencyOutput, error) {
	var output *VerifyConsistencyOutput

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.TxRepositories) error {
		account, err := repos.Accounts.FindByID(ctx, input.AccountID)
		if err != nil {
			return err
		}
		if input.UserID != nil && !account.IsOwnedBy(*input.UserID) {
			return unauthorizedAccount()
		}

		snapshot, err := repos.Aggregates.Get(ctx, input.AccountID)
		if err != nil {
			return err
		}

		totals, err := repos.Transactions.GetTotals(ctx, adapter.TransactionFilter{AccountID: input.AccountID})
		if err != nil {
			return fmt.Errorf("failed to sum transactions: %w", err)
		}

		expected := account.OpeningBalance.Add(totals.IncomeTotal).Sub(totals.ExpenseTotal)
		output = &VerifyConsistencyOutput{
			AccountID:        input.AccountID,
			StoredBalance:    snapshot.Balance,
			ExpectedBalance:  expected,
			IncomeTotal:      totals.IncomeTotal,
			ExpenseTotal:     totals.ExpenseTotal,
			TransactionCount: totals.Count,
		}

		checks := []Drift{
			{Field: "account.balance", Stored: snapshot.Balance, Expected: expected},
			{Field: "analytics.income", Stored: snapshot.Analytics.Income, Expected: totals.IncomeTotal},
			{Field: "analytics.expense", Stored: snapshot.Analytics.Expense, Expected: totals.ExpenseTotal},
			{Field: "analytics.balance", Stored: snapshot.Analytics.Balance, Expected: totals.IncomeTotal.Sub(totals.ExpenseTotal)},
		}
		for _, check := range checks {
			if !check.Stored.Equal(check.Expected) {
				output.Drifts = append(output.Drifts, check)
			}
		}
		output.Consistent = len(output.Drifts) == 0
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if !output.Consistent {
		slog.Warn("Aggregate drift detected",
			"account_id", input.AccountID,
			"drifts", len(output.Drifts),
			"stored_balance", output.StoredBalance.String(),
			"expected_balance", output.ExpectedBalance.String(),
		)
	}

	return output, nil
}
