// Package account contains account lifecycle and summary use cases.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// findOwnedAccount loads an account and checks that userID owns it.
func findOwnedAccount(ctx context.Context, repo adapter.AccountRepository, accountID, userID uuid.UUID) (*entity.Account, error) {
	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountNotFound) {
			return nil, domainerror.NewAccountError(
				domainerror.ErrCodeAccountNotFound,
				"Account not found",
				domainerror.ErrAccountNotFound,
			)
		}
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountInternal,
			"Failed to load account",
			fmt.Errorf("failed to find account: %w", err),
		)
	}
	if !account.IsOwnedBy(userID) {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeNotAuthorizedAccount,
			"Not authorized to access this account",
			domainerror.ErrNotAuthorizedForAccount,
		)
	}
	return account, nil
}
