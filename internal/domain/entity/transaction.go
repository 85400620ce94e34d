package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// TypeOf returns the TransactionType matching an income flag.
func TypeOf(isIncome bool) TransactionType {
	if isIncome {
		return TransactionTypeIncome
	}
	return TransactionTypeExpense
}

// Transaction represents one posting against an account.
type Transaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	OwnerID    uuid.UUID
	Text       string
	Amount     decimal.Decimal // Always positive, direction comes from IsIncome
	IsIncome   bool
	CategoryID *uuid.UUID
	Transfer   string // Payment channel, free text
	CreatedBy  uuid.UUID
	UpdatedBy  uuid.UUID
	CreatedAt  time.Time // Transaction date, editable
	UpdatedAt  time.Time
	DeletedAt  *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity.
// A zero date defaults to now.
func NewTransaction(
	accountID uuid.UUID,
	ownerID uuid.UUID,
	text string,
	amount decimal.Decimal,
	isIncome bool,
	categoryID *uuid.UUID,
	transfer string,
	date time.Time,
) *Transaction {
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}

	return &Transaction{
		ID:         uuid.New(),
		AccountID:  accountID,
		OwnerID:    ownerID,
		Text:       text,
		Amount:     amount,
		IsIncome:   isIncome,
		CategoryID: categoryID,
		Transfer:   transfer,
		CreatedBy:  ownerID,
		UpdatedBy:  ownerID,
		CreatedAt:  date.UTC(),
		UpdatedAt:  now,
	}
}

// IsDeleted reports whether the transaction has been soft-deleted.
func (t *Transaction) IsDeleted() bool {
	return t.DeletedAt != nil
}

// SignedAmount returns the amount with the sign it contributes to the balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionTotals represents aggregated totals for transactions.
type TransactionTotals struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetTotal     decimal.Decimal
	Count        int64
}

// MonthlyTotals holds the income and expense sums for one calendar month.
type MonthlyTotals struct {
	Month   time.Time // First day of the month, UTC
	Income  decimal.Decimal
	Expense decimal.Decimal
}
