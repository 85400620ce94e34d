// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a money account whose balance is maintained by the ledger.
type Account struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Currency       string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	Version        int64 // Incremented on every balance write
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewAccount creates a new Account entity together with its empty Analytics record.
// Both must be persisted in the same database transaction.
func NewAccount(ownerID uuid.UUID, name, currency string, openingBalance decimal.Decimal) (*Account, *Analytics) {
	now := time.Now().UTC()

	account := &Account{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           name,
		Currency:       currency,
		OpeningBalance: openingBalance,
		Balance:        openingBalance,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return account, NewAnalytics(account.ID)
}

// IsOwnedBy reports whether the account belongs to the given user.
func (a *Account) IsOwnedBy(userID uuid.UUID) bool {
	return a.OwnerID == userID
}
