package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ListTransactionsInput represents the input for listing an account's transactions.
type ListTransactionsInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// TotalsOutput represents aggregated totals in the output.
type TotalsOutput struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetTotal     decimal.Decimal
	Count        int64
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Totals       TotalsOutput
}

// ListTransactionsUseCase handles listing transactions logic.
type ListTransactionsUseCase struct {
	accountRepo     adapter.AccountRepository
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(
	accountRepo adapter.AccountRepository,
	transactionRepo adapter.TransactionRepository,
) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the transaction listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidDateRange,
			"endDate must not be before startDate",
			domainerror.ErrInvalidDateRange,
		)
	}

	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, classify(err)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if !account.IsOwnedBy(input.UserID) {
		return nil, unauthorizedAccount()
	}

	filter := adapter.TransactionFilter{
		AccountID: input.AccountID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	transactions, err := uc.transactionRepo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals, err := uc.transactionRepo.GetTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	output := &ListTransactionsOutput{
		Transactions: make([]*TransactionOutput, len(transactions)),
		Totals: TotalsOutput{
			IncomeTotal:  totals.IncomeTotal,
			ExpenseTotal: totals.ExpenseTotal,
			NetTotal:     totals.NetTotal,
			Count:        totals.Count,
		},
	}
	for i, tx := range transactions {
		output.Transactions[i] = toTransactionOutput(tx)
	}

	return output, nil
}
