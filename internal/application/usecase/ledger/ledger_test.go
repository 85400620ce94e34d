package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/persistence/persistencetest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	db      *gorm.DB
	ledger  *Ledger
	store   adapter.AggregateStore
	account *entity.Account
}

func newFixture(t *testing.T, opening string) *fixture {
	t.Helper()
	db := persistencetest.NewDB(t)
	account, analytics := entity.NewAccount(uuid.New(), "Checking", "USD", dec(opening))
	if err := persistence.NewAccountRepository(db).Create(context.Background(), account, analytics); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return &fixture{
		db:      db,
		ledger:  NewLedger(persistence.NewUnitOfWork(db), DefaultMaxRetries),
		store:   persistence.NewAggregateStore(db),
		account: account,
	}
}

func (f *fixture) snapshot(t *testing.T) *entity.AggregateSnapshot {
	t.Helper()
	snapshot, err := f.store.Get(context.Background(), f.account.ID)
	if err != nil {
		t.Fatalf("failed to load aggregates: %v", err)
	}
	return snapshot
}

func (f *fixture) create(t *testing.T, amount string, isIncome bool) *Result {
	t.Helper()
	result, err := f.ledger.ApplyCreate(context.Background(), CreateCommand{
		AccountID: f.account.ID,
		ActorID:   f.account.OwnerID,
		Text:      "posting",
		Amount:    dec(amount),
		IsIncome:  isIncome,
	})
	if err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return result
}

func assertAggregates(t *testing.T, s *entity.AggregateSnapshot, balance, income, expense string) {
	t.Helper()
	if !s.Balance.Equal(dec(balance)) {
		t.Errorf("balance = %s, want %s", s.Balance, balance)
	}
	if !s.Analytics.Income.Equal(dec(income)) {
		t.Errorf("income = %s, want %s", s.Analytics.Income, income)
	}
	if !s.Analytics.Expense.Equal(dec(expense)) {
		t.Errorf("expense = %s, want %s", s.Analytics.Expense, expense)
	}
	if !s.Analytics.Balance.Equal(s.Analytics.Income.Sub(s.Analytics.Expense)) {
		t.Errorf("analytics balance %s is not income - expense", s.Analytics.Balance)
	}
}

func TestLedger_CreateEditDeleteScenario(t *testing.T) {
	f := newFixture(t, "100")
	ctx := context.Background()

	created := f.create(t, "30", false)
	assertAggregates(t, f.snapshot(t), "70", "0", "30")
	if !created.Snapshot.Analytics.ExpensePercentageChange.Equal(dec("100")) {
		t.Errorf("expense change after first expense = %s, want 100", created.Snapshot.Analytics.ExpensePercentageChange)
	}

	amount := dec("50")
	edited, err := f.ledger.ApplyEdit(ctx, EditCommand{
		TransactionID: created.Transaction.ID,
		ActorID:       f.account.OwnerID,
		Amount:        &amount,
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	assertAggregates(t, f.snapshot(t), "50", "0", "50")
	if !edited.Snapshot.Analytics.ExpensePercentageChange.Equal(dec("66.67")) {
		t.Errorf("expense change after edit = %s, want 66.67", edited.Snapshot.Analytics.ExpensePercentageChange)
	}
	if !edited.Snapshot.Analytics.PreviousExpense.Equal(dec("20")) {
		t.Errorf("previous expense = %s, want 20", edited.Snapshot.Analytics.PreviousExpense)
	}

	deleted, err := f.ledger.ApplyDelete(ctx, DeleteCommand{
		TransactionID: created.Transaction.ID,
		ActorID:       f.account.OwnerID,
	})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	assertAggregates(t, f.snapshot(t), "100", "0", "0")
	if !deleted.Snapshot.Analytics.ExpensePercentageChange.Equal(dec("-100")) {
		t.Errorf("expense change after delete = %s, want -100", deleted.Snapshot.Analytics.ExpensePercentageChange)
	}
}

func TestLedger_ApplyCreate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		isIncome bool
		actor    func(f *fixture) uuid.UUID
		account  func(f *fixture) uuid.UUID
		wantErr  error
	}{
		{
			name:    "expense larger than balance",
			amount:  "150",
			wantErr: domainerror.ErrInsufficientBalance,
		},
		{
			name:    "zero amount",
			amount:  "0",
			wantErr: domainerror.ErrInvalidTransactionAmount,
		},
		{
			name:    "negative amount",
			amount:  "-5",
			wantErr: domainerror.ErrInvalidTransactionAmount,
		},
		{
			name:    "three decimals",
			amount:  "1.005",
			wantErr: domainerror.ErrInvalidTransactionAmount,
		},
		{
			name:    "someone else's account",
			amount:  "10",
			actor:   func(*fixture) uuid.UUID { return uuid.New() },
			wantErr: domainerror.ErrNotAuthorizedForAccount,
		},
		{
			name:    "unknown account",
			amount:  "10",
			account: func(*fixture) uuid.UUID { return uuid.New() },
			wantErr: domainerror.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "100")
			cmd := CreateCommand{
				AccountID: f.account.ID,
				ActorID:   f.account.OwnerID,
				Text:      "groceries",
				Amount:    dec(tt.amount),
				IsIncome:  tt.isIncome,
			}
			if tt.actor != nil {
				cmd.ActorID = tt.actor(f)
			}
			if tt.account != nil {
				cmd.AccountID = tt.account(f)
			}

			_, err := f.ledger.ApplyCreate(context.Background(), cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			assertAggregates(t, f.snapshot(t), "100", "0", "0")

			var count int64
			f.db.Table("transactions").Count(&count)
			if count != 0 {
				t.Errorf("expected no transaction rows, got %d", count)
			}
		})
	}
}

func TestLedger_ApplyCreate_EmptyText(t *testing.T) {
	f := newFixture(t, "100")
	_, err := f.ledger.ApplyCreate(context.Background(), CreateCommand{
		AccountID: f.account.ID,
		ActorID:   f.account.OwnerID,
		Text:      "   ",
		Amount:    dec("1"),
	})
	if domainerror.KindOf(err) != domainerror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLedger_Conservation(t *testing.T) {
	f := newFixture(t, "100")

	f.create(t, "250.25", true)
	f.create(t, "30.10", false)
	f.create(t, "19.90", false)
	last := f.create(t, "0.75", false)

	assertAggregates(t, last.Snapshot, "299.50", "250.25", "50.75")
	assertAggregates(t, f.snapshot(t), "299.50", "250.25", "50.75")

	report, err := NewVerifyConsistencyUseCase(persistence.NewUnitOfWork(f.db)).Execute(
		context.Background(),
		VerifyConsistencyInput{AccountID: f.account.ID},
	)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !report.Consistent {
		t.Errorf("expected consistent aggregates, drifts: %+v", report.Drifts)
	}
	if report.TransactionCount != 4 {
		t.Errorf("transaction count = %d, want 4", report.TransactionCount)
	}
}

func TestLedger_ApplyEdit(t *testing.T) {
	t.Run("type change reverses then applies", func(t *testing.T) {
		f := newFixture(t, "100")
		created := f.create(t, "40", false)

		income := true
		_, err := f.ledger.ApplyEdit(context.Background(), EditCommand{
			TransactionID: created.Transaction.ID,
			ActorID:       f.account.OwnerID,
			IsIncome:      &income,
		})
		if err != nil {
			t.Fatalf("edit failed: %v", err)
		}
		assertAggregates(t, f.snapshot(t), "140", "40", "0")
	})

	t.Run("income to expense that would overdraw", func(t *testing.T) {
		f := newFixture(t, "0")
		created := f.create(t, "40", true)
		f.create(t, "30", false)

		expense := false
		_, err := f.ledger.ApplyEdit(context.Background(), EditCommand{
			TransactionID: created.Transaction.ID,
			ActorID:       f.account.OwnerID,
			IsIncome:      &expense,
		})
		if !errors.Is(err, domainerror.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		assertAggregates(t, f.snapshot(t), "10", "40", "30")
	})

	t.Run("only the creator may edit", func(t *testing.T) {
		f := newFixture(t, "100")
		created := f.create(t, "10", false)

		text := "renamed"
		_, err := f.ledger.ApplyEdit(context.Background(), EditCommand{
			TransactionID: created.Transaction.ID,
			ActorID:       uuid.New(),
			Text:          &text,
		})
		if !errors.Is(err, domainerror.ErrNotAuthorizedToModifyTransaction) {
			t.Fatalf("expected ErrNotAuthorizedToModifyTransaction, got %v", err)
		}
	})

	t.Run("text only leaves aggregates alone", func(t *testing.T) {
		f := newFixture(t, "100")
		created := f.create(t, "10", false)
		before := f.snapshot(t)

		text := "coffee"
		result, err := f.ledger.ApplyEdit(context.Background(), EditCommand{
			TransactionID: created.Transaction.ID,
			ActorID:       f.account.OwnerID,
			Text:          &text,
		})
		if err != nil {
			t.Fatalf("edit failed: %v", err)
		}
		if result.Transaction.Text != "coffee" {
			t.Errorf("text = %q, want coffee", result.Transaction.Text)
		}
		after := f.snapshot(t)
		if after.Version != before.Version {
			t.Errorf("version changed from %d to %d", before.Version, after.Version)
		}
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newFixture(t, "100")
		text := "x"
		_, err := f.ledger.ApplyEdit(context.Background(), EditCommand{
			TransactionID: uuid.New(),
			ActorID:       f.account.OwnerID,
			Text:          &text,
		})
		if domainerror.KindOf(err) != domainerror.KindTransactionNotFound {
			t.Fatalf("expected TransactionNotFound, got %v", err)
		}
	})
}

func TestLedger_ApplyDelete(t *testing.T) {
	t.Run("reversal restores aggregates", func(t *testing.T) {
		f := newFixture(t, "100")
		before := f.snapshot(t)
		created := f.create(t, "25.50", true)

		if _, err := f.ledger.ApplyDelete(context.Background(), DeleteCommand{
			TransactionID: created.Transaction.ID,
			ActorID:       f.account.OwnerID,
		}); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		after := f.snapshot(t)
		if !after.Balance.Equal(before.Balance) || !after.Analytics.Income.Equal(before.Analytics.Income) {
			t.Errorf("aggregates not restored: %s/%s", after.Balance, after.Analytics.Income)
		}
	})

	t.Run("removing spent income is rejected", func(t *testing.T) {
		f := newFixture(t, "0")
		income := f.create(t, "50", true)
		f.create(t, "40", false)

		_, err := f.ledger.ApplyDelete(context.Background(), DeleteCommand{
			TransactionID: income.Transaction.ID,
			ActorID:       f.account.OwnerID,
		})
		if !errors.Is(err, domainerror.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		assertAggregates(t, f.snapshot(t), "10", "50", "40")
	})

	t.Run("second delete reports already deleted", func(t *testing.T) {
		f := newFixture(t, "100")
		created := f.create(t, "10", false)
		cmd := DeleteCommand{TransactionID: created.Transaction.ID, ActorID: f.account.OwnerID}

		if _, err := f.ledger.ApplyDelete(context.Background(), cmd); err != nil {
			t.Fatalf("first delete failed: %v", err)
		}
		result, err := f.ledger.ApplyDelete(context.Background(), cmd)
		if err != nil {
			t.Fatalf("second delete failed: %v", err)
		}
		if !result.AlreadyDeleted {
			t.Error("expected AlreadyDeleted")
		}
		assertAggregates(t, f.snapshot(t), "100", "0", "0")
	})

	t.Run("only the creator may delete", func(t *testing.T) {
		f := newFixture(t, "100")
		created := f.create(t, "10", false)

		_, err := f.ledger.ApplyDelete(context.Background(), DeleteCommand{
			TransactionID: created.Transaction.ID,
			ActorID:       uuid.New(),
		})
		if domainerror.KindOf(err) != domainerror.KindUnauthorized {
			t.Fatalf("expected Unauthorized, got %v", err)
		}
		assertAggregates(t, f.snapshot(t), "90", "0", "10")
	})
}

func TestLedger_ConcurrentCreates(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.ApplyCreate(ctx, CreateCommand{
				AccountID: f.account.ID,
				ActorID:   f.account.OwnerID,
				Text:      "deposit",
				Amount:    dec("1.25"),
				IsIncome:  true,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("create failed: %v", err)
		}
	}
	assertAggregates(t, f.snapshot(t), "25", "25", "0")
}

type conflictingUnitOfWork struct {
	calls int
}

func (u *conflictingUnitOfWork) Do(context.Context, func(context.Context, adapter.TxRepositories) error) error {
	u.calls++
	return domainerror.ErrConcurrentAggregateUpdate
}

func TestLedger_RetriesThenGivesUp(t *testing.T) {
	uow := &conflictingUnitOfWork{}
	l := NewLedger(uow, 2)

	_, err := l.ApplyCreate(context.Background(), CreateCommand{
		AccountID: uuid.New(),
		ActorID:   uuid.New(),
		Text:      "x",
		Amount:    dec("1"),
	})
	if domainerror.KindOf(err) != domainerror.KindConcurrentUpdate {
		t.Fatalf("expected ConcurrentUpdate, got %v", err)
	}
	if uow.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", uow.calls)
	}
}
