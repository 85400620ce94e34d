package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateField selects which Analytics side a delta belongs to.
type AggregateField string

const (
	AggregateFieldIncome  AggregateField = "income"
	AggregateFieldExpense AggregateField = "expense"
)

// FieldFor returns the aggregate field touched by a transaction of the given kind.
func FieldFor(isIncome bool) AggregateField {
	if isIncome {
		return AggregateFieldIncome
	}
	return AggregateFieldExpense
}

// AggregateSnapshot is the persisted (Account.balance, Analytics) pair for one account.
type AggregateSnapshot struct {
	AccountID uuid.UUID
	OwnerID   uuid.UUID
	Currency  string
	Balance   decimal.Decimal
	Version   int64
	Analytics Analytics
}

// FieldValue returns the current value of the income or expense side.
func (s *AggregateSnapshot) FieldValue(field AggregateField) decimal.Decimal {
	if field == AggregateFieldIncome {
		return s.Analytics.Income
	}
	return s.Analytics.Expense
}

// AggregateDelta describes one signed change to an account's aggregates.
type AggregateDelta struct {
	BalanceDelta     decimal.Decimal
	IncomeDelta      decimal.Decimal
	ExpenseDelta     decimal.Decimal
	Which            AggregateField
	PercentageChange decimal.Decimal
}

// IsZero reports whether applying the delta would leave every aggregate unchanged.
func (d AggregateDelta) IsZero() bool {
	return d.BalanceDelta.IsZero() && d.IncomeDelta.IsZero() && d.ExpenseDelta.IsZero()
}

// WhichDelta returns the delta applied to the selected analytics field.
func (d AggregateDelta) WhichDelta() decimal.Decimal {
	if d.Which == AggregateFieldIncome {
		return d.IncomeDelta
	}
	return d.ExpenseDelta
}

// ContributionOf returns the delta a live transaction contributes to its account.
// Negate it to reverse the contribution.
func ContributionOf(isIncome bool, amount decimal.Decimal) AggregateDelta {
	delta := AggregateDelta{Which: FieldFor(isIncome)}
	if isIncome {
		delta.BalanceDelta = amount
		delta.IncomeDelta = amount
	} else {
		delta.BalanceDelta = amount.Neg()
		delta.ExpenseDelta = amount
	}
	return delta
}

// Neg returns the reversing delta. The percentage change is left for the caller to recompute.
func (d AggregateDelta) Neg() AggregateDelta {
	return AggregateDelta{
		BalanceDelta: d.BalanceDelta.Neg(),
		IncomeDelta:  d.IncomeDelta.Neg(),
		ExpenseDelta: d.ExpenseDelta.Neg(),
		Which:        d.Which,
	}
}
