package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(100);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Version        int64           `gorm:"not null;default:1"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Analytics *AnalyticsModel `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		Currency:       m.Currency,
		OpeningBalance: m.OpeningBalance,
		Balance:        m.Balance,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	return &AccountModel{
		ID:             account.ID,
		OwnerID:        account.OwnerID,
		Name:           account.Name,
		Currency:       account.Currency,
		OpeningBalance: account.OpeningBalance,
		Balance:        account.Balance,
		Version:        account.Version,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}
