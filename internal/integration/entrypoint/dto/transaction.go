package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	AccountID  string          `json:"accountId" binding:"required,uuid"`
	Text       string          `json:"text" binding:"required,min=1,max=255"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" binding:"required,oneof=expense income"`
	CategoryID *string         `json:"categoryId,omitempty" binding:"omitempty,uuid"`
	Transfer   string          `json:"transfer,omitempty" binding:"omitempty,max=100"`
	Date       string          `json:"date,omitempty"`
}

// EditTransactionRequest represents the request body for a partial transaction update.
type EditTransactionRequest struct {
	Text          *string          `json:"text,omitempty" binding:"omitempty,min=1,max=255"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Type          *string          `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	CategoryID    *string          `json:"categoryId,omitempty" binding:"omitempty,uuid"`
	ClearCategory bool             `json:"clearCategory,omitempty"`
	Transfer      *string          `json:"transfer,omitempty" binding:"omitempty,max=100"`
	Date          *string          `json:"date,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"accountId"`
	Text       string    `json:"text"`
	Amount     string    `json:"amount"`
	Type       string    `json:"type"`
	IsIncome   bool      `json:"isIncome"`
	CategoryID *string   `json:"categoryId,omitempty"`
	Transfer   string    `json:"transfer,omitempty"`
	CreatedBy  string    `json:"createdBy"`
	UpdatedBy  string    `json:"updatedBy"`
	Date       string    `json:"date"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AggregateResponse represents account aggregates after a ledger operation.
type AggregateResponse struct {
	AccountID               string `json:"accountId"`
	Balance                 string `json:"balance"`
	Income                  string `json:"income"`
	Expense                 string `json:"expense"`
	IncomePercentageChange  string `json:"incomePercentageChange"`
	ExpensePercentageChange string `json:"expensePercentageChange"`
}

// TransactionResultResponse is the data of create and edit responses.
type TransactionResultResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Aggregate   *AggregateResponse  `json:"aggregate,omitempty"`
}

// DeleteTransactionResponse is the data of a delete response.
type DeleteTransactionResponse struct {
	TransactionID  string             `json:"transactionId"`
	AlreadyDeleted bool               `json:"alreadyDeleted"`
	Aggregate      *AggregateResponse `json:"aggregate,omitempty"`
}

// TransactionTotalsResponse represents aggregated totals in API responses.
type TransactionTotalsResponse struct {
	IncomeTotal  string `json:"incomeTotal"`
	ExpenseTotal string `json:"expenseTotal"`
	NetTotal     string `json:"netTotal"`
	Count        int64  `json:"count"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse     `json:"transactions"`
	Totals       TransactionTotalsResponse `json:"totals"`
}

// ToTransactionResponse converts a TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(txn *ledger.TransactionOutput) TransactionResponse {
	response := TransactionResponse{
		ID:        txn.ID.String(),
		AccountID: txn.AccountID.String(),
		Text:      txn.Text,
		Amount:    txn.Amount.StringFixed(2),
		Type:      string(txn.Type),
		IsIncome:  txn.Type == entity.TransactionTypeIncome,
		Transfer:  txn.Transfer,
		CreatedBy: txn.CreatedBy.String(),
		UpdatedBy: txn.UpdatedBy.String(),
		Date:      txn.Date.Format("2006-01-02"),
		UpdatedAt: txn.UpdatedAt,
	}

	if txn.CategoryID != nil {
		categoryID := txn.CategoryID.String()
		response.CategoryID = &categoryID
	}

	return response
}

// ToAggregateResponse converts an AggregateOutput to an AggregateResponse DTO.
func ToAggregateResponse(agg *ledger.AggregateOutput) *AggregateResponse {
	if agg == nil {
		return nil
	}
	return &AggregateResponse{
		AccountID:               agg.AccountID.String(),
		Balance:                 agg.Balance.StringFixed(2),
		Income:                  agg.Income.StringFixed(2),
		Expense:                 agg.Expense.StringFixed(2),
		IncomePercentageChange:  agg.IncomePercentageChange.StringFixed(2),
		ExpensePercentageChange: agg.ExpensePercentageChange.StringFixed(2),
	}
}

// ToTransactionListResponse converts a ListTransactionsOutput to a TransactionListResponse DTO.
func ToTransactionListResponse(output *ledger.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		transactions[i] = ToTransactionResponse(txn)
	}

	return TransactionListResponse{
		Transactions: transactions,
		Totals: TransactionTotalsResponse{
			IncomeTotal:  output.Totals.IncomeTotal.StringFixed(2),
			ExpenseTotal: output.Totals.ExpenseTotal.StringFixed(2),
			NetTotal:     output.Totals.NetTotal.StringFixed(2),
			Count:        output.Totals.Count,
		},
	}
}
