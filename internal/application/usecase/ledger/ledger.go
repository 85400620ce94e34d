// Package ledger keeps account balances and analytics consistent with the
// transaction log. Every mutation goes through Ledger, which applies signed
// deltas to the aggregates inside the same database transaction that writes
// the transaction row.
package ledger

import (
	"context"
	"errors"
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

// MaxTextLength is the maximum length for a transaction text.
const MaxTextLength = 255

// DefaultMaxRetries bounds replays after a lost version race.
const DefaultMaxRetries = 3

// CreateCommand describes a new transaction.
type CreateCommand struct {
	// TransactionID is optional; imports pre-assign it so replays are idempotent.
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	ActorID       uuid.UUID
	Text          string
	Amount        decimal.Decimal
	IsIncome      bool
	CategoryID    *uuid.UUID
	Transfer      string
	Date          time.Time
}

// EditCommand describes changes to an existing transaction. Nil fields are kept.
type EditCommand struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
	Text          *string
	Amount        *decimal.Decimal
	IsIncome      *bool
	CategoryID    *uuid.UUID
	ClearCategory bool
	Transfer      *string
	Date          *time.Time
}

// DeleteCommand identifies a transaction to delete.
type DeleteCommand struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
}

// Result is the outcome of one ledger operation.
type Result struct {
	Transaction    *entity.Transaction
	Snapshot       *entity.AggregateSnapshot
	AlreadyDeleted bool
}

// Ledger applies transaction create, edit and delete effects to the aggregates.
type Ledger struct {
	uow        adapter.UnitOfWork
	maxRetries int
	logger     *slog.Logger
}

// NewLedger creates a new Ledger instance.
func NewLedger(uow adapter.UnitOfWork, maxRetries int) *Ledger {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Ledger{
		uow:        uow,
		maxRetries: maxRetries,
		logger:     slog.Default().With("component", "ledger"),
	}
}

// ApplyCreate validates and records a new transaction and adds its
// contribution to the account aggregates.
func (l *Ledger) ApplyCreate(ctx context.Context, cmd CreateCommand) (*Result, error) {
	if err := validateAmount(cmd.Amount); err != nil {
		return nil, err
	}
	text, err := normalizeText(cmd.Text)
	if err != nil {
		return nil, err
	}

	var result *Result
	err = l.withRetry(ctx, "create", func(ctx context.Context, repos adapter.TxRepositories) error {
		snapshot, err := repos.Aggregates.Get(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		if snapshot.OwnerID != cmd.ActorID {
			return unauthorizedAccount()
		}
		if snapshot.Balance.IsNegative() {
			return insufficientBalance(snapshot, "account balance is already negative")
		}
		if !cmd.IsIncome && snapshot.Balance.Sub(cmd.Amount).IsNegative() {
			return insufficientBalance(snapshot, fmt.Sprintf("expense of %s exceeds the available balance",
				valueobject.FormatMoney(cmd.Amount, snapshot.Currency)))
		}
		if err := checkCategory(ctx, repos.Categories, cmd.CategoryID, snapshot.OwnerID); err != nil {
			return err
		}

		tx := entity.NewTransaction(cmd.AccountID, snapshot.OwnerID, text, cmd.Amount, cmd.IsIncome, cmd.CategoryID, cmd.Transfer, cmd.Date)
		if cmd.TransactionID != uuid.Nil {
			tx.ID = cmd.TransactionID
		}
		tx.CreatedBy = cmd.ActorID
		tx.UpdatedBy = cmd.ActorID

		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		updated, err := applyStep(ctx, repos.Aggregates, snapshot, entity.ContributionOf(tx.IsIncome, tx.Amount))
		if err != nil {
			return err
		}

		result = &Result{Transaction: tx, Snapshot: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Transaction created",
		"transaction_id", result.Transaction.ID,
		"account_id", cmd.AccountID,
		"is_income", cmd.IsIncome,
		"amount", cmd.Amount.String(),
		"balance", result.Snapshot.Balance.String(),
	)
	return result, nil
}

// ApplyEdit updates a transaction and adjusts the aggregates by the
// difference between its old and new contribution. A change of type is
// applied as a reversal of the old contribution followed by the new one.
func (l *Ledger) ApplyEdit(ctx context.Context, cmd EditCommand) (*Result, error) {
	if cmd.Amount != nil {
		if err := validateAmount(*cmd.Amount); err != nil {
			return nil, err
		}
	}
	var text *string
	if cmd.Text != nil {
		normalized, err := normalizeText(*cmd.Text)
		if err != nil {
			return nil, err
		}
		text = &normalized
	}

	var result *Result
	err := l.withRetry(ctx, "edit", func(ctx context.Context, repos adapter.TxRepositories) error {
		current, err := repos.Transactions.FindByID(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}
		if current.CreatedBy != cmd.ActorID {
			return unauthorizedTransaction("edit")
		}

		snapshot, err := repos.Aggregates.Get(ctx, current.AccountID)
		if err != nil {
			return err
		}

		next := *current
		if text != nil {
			next.Text = *text
		}
		if cmd.Amount != nil {
			next.Amount = *cmd.Amount
		}
		if cmd.IsIncome != nil {
			next.IsIncome = *cmd.IsIncome
		}
		if cmd.Transfer != nil {
			next.Transfer = *cmd.Transfer
		}
		if cmd.Date != nil {
			next.CreatedAt = cmd.Date.UTC()
		}
		if cmd.ClearCategory {
			next.CategoryID = nil
		} else if cmd.CategoryID != nil {
			if err := checkCategory(ctx, repos.Categories, cmd.CategoryID, snapshot.OwnerID); err != nil {
				return err
			}
			next.CategoryID = cmd.CategoryID
		}

		steps := planEdit(current, &next)
		total := decimal.Zero
		for _, step := range steps {
			total = total.Add(step.BalanceDelta)
		}
		if snapshot.Balance.Add(total).IsNegative() {
			return insufficientBalance(snapshot, "edit would leave the account balance negative")
		}

		for _, step := range steps {
			snapshot, err = applyStep(ctx, repos.Aggregates, snapshot, step)
			if err != nil {
				return err
			}
		}

		next.UpdatedBy = cmd.ActorID
		next.UpdatedAt = time.Now().UTC()
		if err := repos.Transactions.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		result = &Result{Transaction: &next, Snapshot: snapshot}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Transaction edited",
		"transaction_id", cmd.TransactionID,
		"account_id", result.Transaction.AccountID,
		"balance", result.Snapshot.Balance.String(),
	)
	return result, nil
}

// ApplyDelete reverses a transaction's contribution and soft-deletes it.
// Deleting an already deleted transaction succeeds without side effects.
func (l *Ledger) ApplyDelete(ctx context.Context, cmd DeleteCommand) (*Result, error) {
	var result *Result
	err := l.withRetry(ctx, "delete", func(ctx context.Context, repos adapter.TxRepositories) error {
		current, err := repos.Transactions.FindByIDUnscoped(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}
		if current.CreatedBy != cmd.ActorID {
			return unauthorizedTransaction("delete")
		}
		if current.IsDeleted() {
			result = &Result{Transaction: current, AlreadyDeleted: true}
			return nil
		}

		snapshot, err := repos.Aggregates.Get(ctx, current.AccountID)
		if err != nil {
			return err
		}
		if current.IsIncome && snapshot.Balance.Sub(current.Amount).IsNegative() {
			return insufficientBalance(snapshot, "removing this income would leave the account balance negative")
		}

		updated, err := applyStep(ctx, repos.Aggregates, snapshot, entity.ContributionOf(current.IsIncome, current.Amount).Neg())
		if err != nil {
			return err
		}

		if err := repos.Transactions.Delete(ctx, current.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		result = &Result{Transaction: current, Snapshot: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyDeleted {
		l.logger.Info("Transaction already deleted", "transaction_id", cmd.TransactionID)
	} else {
		l.logger.Info("Transaction deleted",
			"transaction_id", cmd.TransactionID,
			"account_id", result.Transaction.AccountID,
			"balance", result.Snapshot.Balance.String(),
		)
	}
	return result, nil
}

// withRetry runs fn in a unit of work, replaying it when the account row
// changed between read and write.
func (l *Ledger) withRetry(ctx context.Context, op string, fn func(ctx context.Context, repos adapter.TxRepositories) error) error {
	for attempt := 0; ; attempt++ {
		err := l.uow.Do(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainerror.ErrConcurrentAggregateUpdate) {
			return classify(err)
		}
		if attempt >= l.maxRetries {
			l.logger.Warn("Giving up after concurrent updates", "operation", op, "attempts", attempt+1)
			return classify(err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		l.logger.Warn("Concurrent aggregate update, retrying", "operation", op, "attempt", attempt+1)
	}
}

// planEdit returns the aggregate deltas that move current's contribution to next's.
func planEdit(current, next *entity.Transaction) []entity.AggregateDelta {
	if current.IsIncome != next.IsIncome {
		return []entity.AggregateDelta{
			entity.ContributionOf(current.IsIncome, current.Amount).Neg(),
			entity.ContributionOf(next.IsIncome, next.Amount),
		}
	}

	diff := next.Amount.Sub(current.Amount)
	if diff.IsZero() {
		return nil
	}
	return []entity.AggregateDelta{entity.ContributionOf(current.IsIncome, diff)}
}

// applyStep fills in the trend field for one delta and applies it.
func applyStep(
	ctx context.Context,
	store adapter.AggregateStore,
	snapshot *entity.AggregateSnapshot,
	delta entity.AggregateDelta,
) (*entity.AggregateSnapshot, error) {
	prior := snapshot.FieldValue(delta.Which)
	delta.PercentageChange = valueobject.PercentageChange(prior, prior.Add(delta.WhichDelta()))

	updated, err := store.ApplyDelta(ctx, snapshot.AccountID, delta)
	if err != nil {
		if errors.Is(err, domainerror.ErrInsufficientBalance) {
			return nil, insufficientBalance(snapshot, "operation would leave the account balance negative")
		}
		return nil, err
	}
	return updated, nil
}

func checkCategory(ctx context.Context, repo adapter.CategoryRepository, categoryID *uuid.UUID, ownerID uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	category, err := repo.FindByID(ctx, *categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil || (!category.IsGlobal() && category.OwnerScope != ownerID.String()) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeLedgerCategoryNotFound,
			"Category not found",
			domainerror.ErrCategoryNotFound,
		)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"Amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if !valueobject.HasValidScale(amount) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"Amount must have at most two decimal places",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

func normalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxTextLength {
		return "", domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidTransactionText,
			fmt.Sprintf("Text is required and must be at most %d characters", MaxTextLength),
			domainerror.ErrInvalidTransactionText,
		)
	}
	return trimmed, nil
}

func insufficientBalance(snapshot *entity.AggregateSnapshot, reason string) error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeInsufficientBalance,
		fmt.Sprintf("Insufficient balance: %s (current balance %s)", reason,
			valueobject.FormatMoney(snapshot.Balance, snapshot.Currency)),
		domainerror.ErrInsufficientBalance,
	)
}

func unauthorizedAccount() error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeNotAuthorizedLedger,
		"Not authorized to post to this account",
		domainerror.ErrNotAuthorizedForAccount,
	)
}

func unauthorizedTransaction(action string) error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeNotAuthorizedLedger,
		fmt.Sprintf("Only the creator may %s this transaction", action),
		domainerror.ErrNotAuthorizedToModifyTransaction,
	)
}

// classify turns bare repository sentinels into coded ledger errors and
// wraps everything else as an internal failure.
func classify(err error) error {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		return err
	}

	switch {
	case errors.Is(err, domainerror.ErrAccountNotFound):
		return domainerror.NewLedgerError(domainerror.ErrCodeLedgerAccountNotFound, "Account not found", domainerror.ErrAccountNotFound)
	case errors.Is(err, domainerror.ErrAnalyticsNotFound):
		return domainerror.NewLedgerError(domainerror.ErrCodeAnalyticsNotFound, "Account analytics not found", domainerror.ErrAnalyticsNotFound)
	case errors.Is(err, domainerror.ErrTransactionNotFound):
		return domainerror.NewLedgerError(domainerror.ErrCodeTransactionNotFound, "Transaction not found", domainerror.ErrTransactionNotFound)
	case errors.Is(err, domainerror.ErrConcurrentAggregateUpdate):
		return domainerror.NewLedgerError(domainerror.ErrCodeConcurrentUpdate, "Account was modified concurrently, please retry", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternal, "Ledger operation failed", err)
	}
}
