// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Omit("Category").Create(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a live transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDUnscoped retrieves a transaction by its ID, including soft-deleted rows.
func (r *transactionRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.findByID(r.db.WithContext(ctx).Unscoped(), id)
}

func (r *transactionRepository) findByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := db.Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByFilter retrieves live transactions matching the filter, newest first.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	result := r.applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter).
		Order("created_at DESC, id").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntity()
	}
	return transactions, nil
}

// GetTotals sums live income and expense transactions matching the filter.
// Amounts are summed as decimals so the result is exact on every driver.
func (r *transactionRepository) GetTotals(ctx context.Context, filter adapter.TransactionFilter) (*entity.TransactionTotals, error) {
	var rows []struct {
		Amount   decimal.Decimal
		IsIncome bool
	}
	result := r.applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter).
		Select("amount, is_income").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	totals := &entity.TransactionTotals{
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Count:        int64(len(rows)),
	}
	for _, row := range rows {
		if row.IsIncome {
			totals.IncomeTotal = totals.IncomeTotal.Add(row.Amount)
		} else {
			totals.ExpenseTotal = totals.ExpenseTotal.Add(row.Amount)
		}
	}
	totals.NetTotal = totals.IncomeTotal.Sub(totals.ExpenseTotal)

	return totals, nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"text":        transactionModel.Text,
			"amount":      transactionModel.Amount,
			"is_income":   transactionModel.IsIncome,
			"category_id": transactionModel.CategoryID,
			"transfer":    transactionModel.Transfer,
			"updated_by":  transactionModel.UpdatedBy,
			"created_at":  transactionModel.CreatedAt,
			"updated_at":  transactionModel.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// Delete soft-deletes a transaction from the database.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// Exists reports whether a transaction with the ID was ever written, deleted or not.
func (r *transactionRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.TransactionModel{}).
		Where("id = ?", id).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// DeleteByAccount hard-deletes every transaction of an account.
func (r *transactionRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("account_id = ?", accountID).
		Delete(&model.TransactionModel{}).Error
}

func (r *transactionRepository) applyFilter(query *gorm.DB, filter adapter.TransactionFilter) *gorm.DB {
	query = query.Where("account_id = ?", filter.AccountID)

	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("created_at < ?", filter.EndDate.UTC())
	}
	if filter.IsIncome != nil {
		query = query.Where("is_income = ?", *filter.IsIncome)
	}
	return query
}
