package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// AnalyticsModel represents the analytics table in the database.
type AnalyticsModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Income                  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Expense                 decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Balance                 decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PreviousIncome          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PreviousExpense         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	IncomePercentageChange  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpensePercentageChange decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt               time.Time       `gorm:"not null"`
	UpdatedAt               time.Time       `gorm:"not null"`
}

// TableName returns the table name for the AnalyticsModel.
func (AnalyticsModel) TableName() string {
	return "analytics"
}

// ToEntity converts an AnalyticsModel to a domain Analytics entity.
func (m *AnalyticsModel) ToEntity() *entity.Analytics {
	return &entity.Analytics{
		ID:                      m.ID,
		AccountID:               m.AccountID,
		Income:                  m.Income,
		Expense:                 m.Expense,
		Balance:                 m.Balance,
		PreviousIncome:          m.PreviousIncome,
		PreviousExpense:         m.PreviousExpense,
		IncomePercentageChange:  m.IncomePercentageChange,
		ExpensePercentageChange: m.ExpensePercentageChange,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

// AnalyticsFromEntity creates an AnalyticsModel from a domain Analytics entity.
func AnalyticsFromEntity(analytics *entity.Analytics) *AnalyticsModel {
	return &AnalyticsModel{
		ID:                      analytics.ID,
		AccountID:               analytics.AccountID,
		Income:                  analytics.Income,
		Expense:                 analytics.Expense,
		Balance:                 analytics.Balance,
		PreviousIncome:          analytics.PreviousIncome,
		PreviousExpense:         analytics.PreviousExpense,
		IncomePercentageChange:  analytics.IncomePercentageChange,
		ExpensePercentageChange: analytics.ExpensePercentageChange,
		CreatedAt:               analytics.CreatedAt,
		UpdatedAt:               analytics.UpdatedAt,
	}
}

// AllModels lists every model migrated at startup, parents first.
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&AccountModel{},
		&AnalyticsModel{},
		&TransactionModel{},
	}
}
