package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DeleteAccountInput represents the input for account deletion.
type DeleteAccountInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

// DeleteAccountUseCase removes an account with its transactions and analytics.
type DeleteAccountUseCase struct {
	accountRepo adapter.AccountRepository
	uow         adapter.UnitOfWork
}

// NewDeleteAccountUseCase creates a new DeleteAccountUseCase instance.
func NewDeleteAccountUseCase(accountRepo adapter.AccountRepository, uow adapter.UnitOfWork) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		accountRepo: accountRepo,
		uow:         uow,
	}
}

// Execute performs the account deletion.
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) error {
	if _, err := findOwnedAccount(ctx, uc.accountRepo, input.AccountID, input.UserID); err != nil {
		return err
	}

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.TxRepositories) error {
		if err := repos.Transactions.DeleteByAccount(ctx, input.AccountID); err != nil {
			return fmt.Errorf("failed to delete transactions: %w", err)
		}
		return repos.Accounts.Delete(ctx, input.AccountID)
	})
	if err != nil {
		return domainerror.NewAccountError(
			domainerror.ErrCodeAccountInternal,
			"Failed to delete account",
			err,
		)
	}

	slog.Info("Account deleted", "account_id", input.AccountID, "owner_id", input.UserID)
	return nil
}
