package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/persistencetest"
)

func TestTransactionRepository_RangeAndTotals(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.NewDB(t)
	repo := NewTransactionRepository(db)
	account := seedAccount(t, db, "0")

	jan := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 3, 9, 30, 0, 0, time.UTC)

	fixtures := []*entity.Transaction{
		entity.NewTransaction(account.ID, account.OwnerID, "Salary", decimal.RequireFromString("1000.10"), true, nil, "wire", jan),
		entity.NewTransaction(account.ID, account.OwnerID, "Rent", decimal.RequireFromString("400.20"), false, nil, "pix", jan),
		entity.NewTransaction(account.ID, account.OwnerID, "Coffee", decimal.RequireFromString("0.10"), false, nil, "card", feb),
	}
	for _, tx := range fixtures {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	january, err := repo.FindByFilter(ctx, adapter.TransactionFilter{AccountID: account.ID, StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(january) != 2 {
		t.Errorf("expected 2 January transactions, got %d", len(january))
	}

	totals, err := repo.GetTotals(ctx, adapter.TransactionFilter{AccountID: account.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.IncomeTotal.Equal(decimal.RequireFromString("1000.10")) {
		t.Errorf("expected income 1000.10, got %s", totals.IncomeTotal)
	}
	if !totals.ExpenseTotal.Equal(decimal.RequireFromString("400.30")) {
		t.Errorf("expected expense 400.30, got %s", totals.ExpenseTotal)
	}
	if !totals.NetTotal.Equal(decimal.RequireFromString("599.80")) {
		t.Errorf("expected net 599.80, got %s", totals.NetTotal)
	}

	if err := repo.Delete(ctx, fixtures[2].ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	t.Run("soft deleted rows leave live queries", func(t *testing.T) {
		_, err := repo.FindByID(ctx, fixtures[2].ID)
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("expected ErrTransactionNotFound, got %v", err)
		}
		after, err := repo.GetTotals(ctx, adapter.TransactionFilter{AccountID: account.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after.Count != 2 {
			t.Errorf("expected 2 live transactions, got %d", after.Count)
		}
	})

	t.Run("soft deleted rows remain visible unscoped", func(t *testing.T) {
		deleted, err := repo.FindByIDUnscoped(ctx, fixtures[2].ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted.IsDeleted() {
			t.Error("expected DeletedAt to be set")
		}
		exists, err := repo.Exists(ctx, fixtures[2].ID)
		if err != nil || !exists {
			t.Errorf("expected Exists to report the deleted id, got %v (err %v)", exists, err)
		}
	})

	t.Run("update of unknown id", func(t *testing.T) {
		ghost := entity.NewTransaction(account.ID, account.OwnerID, "Ghost", decimal.NewFromInt(1), true, nil, "", time.Time{})
		if err := repo.Update(ctx, ghost); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("expected ErrTransactionNotFound, got %v", err)
		}
	})
}
