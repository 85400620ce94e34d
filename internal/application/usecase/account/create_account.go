package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// MaxAccountNameLength is the maximum length for an account name.
const MaxAccountNameLength = 100

// CreateAccountInput represents the input for account creation.
type CreateAccountInput struct {
	UserID         uuid.UUID
	Name           string
	Currency       string // Empty uses the configured default
	OpeningBalance decimal.Decimal
}

// AccountOutput represents an account in the output.
type AccountOutput struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Currency       string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateAccountOutput represents the output of account creation.
type CreateAccountOutput struct {
	Account *AccountOutput
}

// CreateAccountUseCase handles account creation logic.
type CreateAccountUseCase struct {
	accountRepo     adapter.AccountRepository
	defaultCurrency string
}

// NewCreateAccountUseCase creates a new CreateAccountUseCase instance.
func NewCreateAccountUseCase(accountRepo adapter.AccountRepository, defaultCurrency string) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accountRepo:     accountRepo,
		defaultCurrency: defaultCurrency,
	}
}

// Execute creates the account and its analytics record.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxAccountNameLength {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeInvalidAccountName,
			fmt.Sprintf("Name is required and must be at most %d characters", MaxAccountNameLength),
			domainerror.ErrInvalidAccountName,
		)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = uc.defaultCurrency
	}
	if !valueobject.IsKnownCurrency(currency) {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeInvalidCurrency,
			fmt.Sprintf("Unknown currency %q", currency),
			domainerror.ErrInvalidCurrency,
		)
	}

	if input.OpeningBalance.IsNegative() || !valueobject.HasValidScale(input.OpeningBalance) {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeInvalidOpeningBalance,
			"Opening balance must be zero or positive with at most two decimal places",
			domainerror.ErrInvalidOpeningBalance,
		)
	}

	account, analytics := entity.NewAccount(input.UserID, name, currency, input.OpeningBalance)
	if err := uc.accountRepo.Create(ctx, account, analytics); err != nil {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountInternal,
			"Failed to create account",
			fmt.Errorf("failed to create account: %w", err),
		)
	}

	slog.Info("Account created",
		"account_id", account.ID,
		"owner_id", account.OwnerID,
		"currency", account.Currency,
	)

	return &CreateAccountOutput{Account: toAccountOutput(account)}, nil
}

func toAccountOutput(account *entity.Account) *AccountOutput {
	return &AccountOutput{
		ID:             account.ID,
		OwnerID:        account.OwnerID,
		Name:           account.Name,
		Currency:       account.Currency,
		OpeningBalance: account.OpeningBalance,
		Balance:        account.Balance,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}
