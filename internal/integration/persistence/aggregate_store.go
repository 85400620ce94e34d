package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// aggregateStore implements the adapter.AggregateStore interface over the
// accounts and analytics tables.
type aggregateStore struct {
	db *gorm.DB
}

// NewAggregateStore creates a new aggregate store instance.
func NewAggregateStore(db *gorm.DB) adapter.AggregateStore {
	return &aggregateStore{
		db: db,
	}
}

// Get returns the current snapshot, locking both rows on PostgreSQL.
func (s *aggregateStore) Get(ctx context.Context, accountID uuid.UUID) (*entity.AggregateSnapshot, error) {
	var accountModel model.AccountModel
	result := s.forUpdate(ctx).Where("id = ?", accountID).First(&accountModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountNotFound
		}
		return nil, result.Error
	}

	var analyticsModel model.AnalyticsModel
	result = s.forUpdate(ctx).Where("account_id = ?", accountID).First(&analyticsModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAnalyticsNotFound
		}
		return nil, result.Error
	}

	return &entity.AggregateSnapshot{
		AccountID: accountModel.ID,
		OwnerID:   accountModel.OwnerID,
		Currency:  accountModel.Currency,
		Balance:   accountModel.Balance,
		Version:   accountModel.Version,
		Analytics: *analyticsModel.ToEntity(),
	}, nil
}

// ApplyDelta applies the delta to both rows and returns the new snapshot.
// New values are computed in decimal arithmetic and written as absolute
// values guarded by the account version.
func (s *aggregateStore) ApplyDelta(ctx context.Context, accountID uuid.UUID, delta entity.AggregateDelta) (*entity.AggregateSnapshot, error) {
	snapshot, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	newBalance := snapshot.Balance.Add(delta.BalanceDelta)
	if delta.BalanceDelta.IsNegative() && newBalance.IsNegative() {
		return nil, domainerror.ErrInsufficientBalance
	}

	analytics := snapshot.Analytics
	analytics.Income = analytics.Income.Add(delta.IncomeDelta)
	analytics.Expense = analytics.Expense.Add(delta.ExpenseDelta)
	analytics.Balance = analytics.Income.Sub(analytics.Expense)
	switch delta.Which {
	case entity.AggregateFieldIncome:
		analytics.PreviousIncome = delta.IncomeDelta.Abs()
		analytics.IncomePercentageChange = delta.PercentageChange
	case entity.AggregateFieldExpense:
		analytics.PreviousExpense = delta.ExpenseDelta.Abs()
		analytics.ExpensePercentageChange = delta.PercentageChange
	}

	now := time.Now().UTC()
	db := s.db.WithContext(ctx)

	result := db.Model(&model.AccountModel{}).
		Where("id = ? AND version = ?", accountID, snapshot.Version).
		Updates(map[string]any{
			"balance":    newBalance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerror.ErrConcurrentAggregateUpdate
	}

	result = db.Model(&model.AnalyticsModel{}).
		Where("id = ?", analytics.ID).
		Updates(map[string]any{
			"income":                    analytics.Income,
			"expense":                   analytics.Expense,
			"balance":                   analytics.Balance,
			"previous_income":           analytics.PreviousIncome,
			"previous_expense":          analytics.PreviousExpense,
			"income_percentage_change":  analytics.IncomePercentageChange,
			"expense_percentage_change": analytics.ExpensePercentageChange,
			"updated_at":                now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	analytics.UpdatedAt = now
	snapshot.Balance = newBalance
	snapshot.Version++
	snapshot.Analytics = analytics
	return snapshot, nil
}

// forUpdate returns a session that takes row locks where the dialect supports them.
func (s *aggregateStore) forUpdate(ctx context.Context) *gorm.DB {
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
