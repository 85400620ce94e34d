package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/persistence/persistencetest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateAccountUseCase_Execute(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateAccountInput
		wantErr  error
		currency string
	}{
		{
			name:     "defaults currency",
			input:    CreateAccountInput{Name: "Checking", OpeningBalance: dec("100")},
			currency: "USD",
		},
		{
			name:     "lowercase currency is normalized",
			input:    CreateAccountInput{Name: "Savings", Currency: "eur"},
			currency: "EUR",
		},
		{
			name:    "blank name",
			input:   CreateAccountInput{Name: "  "},
			wantErr: domainerror.ErrInvalidAccountName,
		},
		{
			name:    "unknown currency",
			input:   CreateAccountInput{Name: "Checking", Currency: "ZZZ"},
			wantErr: domainerror.ErrInvalidCurrency,
		},
		{
			name:    "negative opening balance",
			input:   CreateAccountInput{Name: "Checking", OpeningBalance: dec("-1")},
			wantErr: domainerror.ErrInvalidOpeningBalance,
		},
		{
			name:    "opening balance with three decimals",
			input:   CreateAccountInput{Name: "Checking", OpeningBalance: dec("1.234")},
			wantErr: domainerror.ErrInvalidOpeningBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := persistencetest.NewDB(t)
			uc := NewCreateAccountUseCase(persistence.NewAccountRepository(db), "USD")
			tt.input.UserID = uuid.New()

			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Account.Currency != tt.currency {
				t.Errorf("currency = %s, want %s", out.Account.Currency, tt.currency)
			}
			if !out.Account.Balance.Equal(tt.input.OpeningBalance) {
				t.Errorf("balance = %s, want opening %s", out.Account.Balance, tt.input.OpeningBalance)
			}

			snapshot, err := persistence.NewAggregateStore(db).Get(context.Background(), out.Account.ID)
			if err != nil {
				t.Fatalf("analytics not created with the account: %v", err)
			}
			if !snapshot.Analytics.Income.IsZero() || !snapshot.Analytics.Expense.IsZero() {
				t.Error("expected zeroed analytics")
			}
		})
	}
}

func TestGetAccountSummaryUseCase_Trend(t *testing.T) {
	db := persistencetest.NewDB(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := NewCreateAccountUseCase(persistence.NewAccountRepository(db), "USD").Execute(ctx, CreateAccountInput{
		UserID: owner,
		Name:   "Checking",
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	accountID := created.Account.ID

	l := ledger.NewLedger(persistence.NewUnitOfWork(db), ledger.DefaultMaxRetries)
	postings := []struct {
		amount   string
		isIncome bool
		date     time.Time
	}{
		{"100", true, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"10", false, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)},
		{"200", true, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{"20", false, time.Date(2025, time.February, 28, 23, 0, 0, 0, time.UTC)},
		{"300", true, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)},
		{"10", false, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)},
		{"999", true, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, p := range postings {
		if _, err := l.ApplyCreate(ctx, ledger.CreateCommand{
			AccountID: accountID,
			ActorID:   owner,
			Text:      "posting",
			Amount:    dec(p.amount),
			IsIncome:  p.isIncome,
			Date:      p.date,
		}); err != nil {
			t.Fatalf("failed to post: %v", err)
		}
	}

	uc := NewGetAccountSummaryUseCase(
		persistence.NewAccountRepository(db),
		persistence.NewAggregateStore(db),
		persistence.NewTransactionRepository(db),
		3,
	)
	uc.now = func() time.Time { return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC) }

	out, err := uc.Execute(ctx, GetAccountSummaryInput{AccountID: accountID, UserID: owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Account.Balance.Equal(dec("1559")) {
		t.Errorf("balance = %s, want 1559", out.Account.Balance)
	}
	if len(out.Trend.Months) != 3 {
		t.Fatalf("expected 3 months, got %d", len(out.Trend.Months))
	}
	wantLabels := []string{"Jan 2025", "Feb 2025", "Mar 2025"}
	for i, label := range wantLabels {
		if out.Trend.Months[i].Label != label {
			t.Errorf("month %d label = %s, want %s", i, out.Trend.Months[i].Label, label)
		}
	}
	if !out.Trend.Months[1].Income.Equal(dec("200")) || !out.Trend.Months[1].Expense.Equal(dec("20")) {
		t.Errorf("february = %s/%s, want 200/20", out.Trend.Months[1].Income, out.Trend.Months[1].Expense)
	}
	if !out.Trend.ExpenseChangePercentage.Equal(dec("-50")) {
		t.Errorf("expense change = %s, want -50", out.Trend.ExpenseChangePercentage)
	}
	if !out.Trend.IncomeChangePercentage.Equal(dec("50")) {
		t.Errorf("income change = %s, want 50", out.Trend.IncomeChangePercentage)
	}

	wantIncome := []string{"400", "500"}
	if len(out.Trend.IncomeForecast) != len(wantIncome) {
		t.Fatalf("income forecast = %v", out.Trend.IncomeForecast)
	}
	for i, want := range wantIncome {
		if !out.Trend.IncomeForecast[i].Equal(dec(want)) {
			t.Errorf("income forecast[%d] = %s, want %s", i, out.Trend.IncomeForecast[i], want)
		}
	}
	if !out.Trend.ExpenseForecast[0].Equal(dec("13.33")) {
		t.Errorf("expense forecast = %s, want 13.33", out.Trend.ExpenseForecast[0])
	}
}

func TestGetAccountSummaryUseCase_ShortSeriesHasNoForecast(t *testing.T) {
	db := persistencetest.NewDB(t)
	owner := uuid.New()
	created, err := NewCreateAccountUseCase(persistence.NewAccountRepository(db), "USD").Execute(context.Background(), CreateAccountInput{
		UserID: owner,
		Name:   "Checking",
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	uc := NewGetAccountSummaryUseCase(
		persistence.NewAccountRepository(db),
		persistence.NewAggregateStore(db),
		persistence.NewTransactionRepository(db),
		2,
	)
	out, err := uc.Execute(context.Background(), GetAccountSummaryInput{AccountID: created.Account.ID, UserID: owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Trend.IncomeForecast) != 0 || len(out.Trend.ExpenseForecast) != 0 {
		t.Errorf("expected no forecast for two months, got %v/%v", out.Trend.IncomeForecast, out.Trend.ExpenseForecast)
	}
}

func TestDeleteAccountUseCase_Execute(t *testing.T) {
	db := persistencetest.NewDB(t)
	ctx := context.Background()
	owner := uuid.New()
	accounts := persistence.NewAccountRepository(db)

	created, err := NewCreateAccountUseCase(accounts, "USD").Execute(ctx, CreateAccountInput{
		UserID:         owner,
		Name:           "Checking",
		OpeningBalance: dec("10"),
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	l := ledger.NewLedger(persistence.NewUnitOfWork(db), ledger.DefaultMaxRetries)
	if _, err := l.ApplyCreate(ctx, ledger.CreateCommand{
		AccountID: created.Account.ID,
		ActorID:   owner,
		Text:      "coffee",
		Amount:    dec("3"),
	}); err != nil {
		t.Fatalf("failed to post: %v", err)
	}

	uc := NewDeleteAccountUseCase(accounts, persistence.NewUnitOfWork(db))

	t.Run("stranger is rejected", func(t *testing.T) {
		err := uc.Execute(ctx, DeleteAccountInput{AccountID: created.Account.ID, UserID: uuid.New()})
		if !errors.Is(err, domainerror.ErrNotAuthorizedForAccount) {
			t.Fatalf("expected ErrNotAuthorizedForAccount, got %v", err)
		}
	})

	t.Run("owner removes everything", func(t *testing.T) {
		if err := uc.Execute(ctx, DeleteAccountInput{AccountID: created.Account.ID, UserID: owner}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := accounts.FindByID(ctx, created.Account.ID); !errors.Is(err, domainerror.ErrAccountNotFound) {
			t.Errorf("expected account gone, got %v", err)
		}
		var count int64
		db.Table("transactions").Where("account_id = ?", created.Account.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected transactions removed, found %d", count)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		err := uc.Execute(ctx, DeleteAccountInput{AccountID: uuid.New(), UserID: owner})
		if domainerror.KindOf(err) != domainerror.KindAccountNotFound {
			t.Fatalf("expected AccountNotFound, got %v", err)
		}
	})
}
