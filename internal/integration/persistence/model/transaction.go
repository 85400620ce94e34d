// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_account_date,priority:1"`
	OwnerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Text       string          `gorm:"type:varchar(255);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IsIncome   bool            `gorm:"not null;default:false"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Transfer   string          `gorm:"type:varchar(100)"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	UpdatedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt  time.Time       `gorm:"not null;index:idx_transactions_account_date,priority:2"`
	UpdatedAt  time.Time       `gorm:"not null"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Transaction{
		ID:         m.ID,
		AccountID:  m.AccountID,
		OwnerID:    m.OwnerID,
		Text:       m.Text,
		Amount:     m.Amount,
		IsIncome:   m.IsIncome,
		CategoryID: m.CategoryID,
		Transfer:   m.Transfer,
		CreatedBy:  m.CreatedBy,
		UpdatedBy:  m.UpdatedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:         transaction.ID,
		AccountID:  transaction.AccountID,
		OwnerID:    transaction.OwnerID,
		Text:       transaction.Text,
		Amount:     transaction.Amount,
		IsIncome:   transaction.IsIncome,
		CategoryID: transaction.CategoryID,
		Transfer:   transaction.Transfer,
		CreatedBy:  transaction.CreatedBy,
		UpdatedBy:  transaction.UpdatedBy,
		CreatedAt:  transaction.CreatedAt,
		UpdatedAt:  transaction.UpdatedAt,
		DeletedAt:  deletedAt,
	}
}
