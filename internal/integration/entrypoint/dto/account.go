package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/account"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
)

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Currency       string          `json:"currency,omitempty" binding:"omitempty,len=3"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	OpeningBalance string    `json:"openingBalance"`
	Balance        string    `json:"balance"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AnalyticsResponse represents the stored analytics of an account.
type AnalyticsResponse struct {
	Income                  string `json:"income"`
	Expense                 string `json:"expense"`
	Balance                 string `json:"balance"`
	PreviousIncome          string `json:"previousIncome"`
	PreviousExpense         string `json:"previousExpense"`
	IncomePercentageChange  string `json:"incomePercentageChange"`
	ExpensePercentageChange string `json:"expensePercentageChange"`
}

// MonthPointResponse represents one month of the trend series.
type MonthPointResponse struct {
	Month            string `json:"month"`
	Label            string `json:"label"`
	Income           string `json:"income"`
	Expense          string `json:"expense"`
	TransactionCount int    `json:"transactionCount"`
}

// TrendResponse represents the monthly trend and forecast.
type TrendResponse struct {
	Months                  []MonthPointResponse `json:"months"`
	IncomeChangePercentage  string               `json:"incomeChangePercentage"`
	ExpenseChangePercentage string               `json:"expenseChangePercentage"`
	IncomeForecast          []string             `json:"incomeForecast"`
	ExpenseForecast         []string             `json:"expenseForecast"`
}

// AccountSummaryResponse represents the response for an account summary.
type AccountSummaryResponse struct {
	Account   AccountResponse   `json:"account"`
	Analytics AnalyticsResponse `json:"analytics"`
	Trend     TrendResponse     `json:"trend"`
}

// DriftResponse represents one inconsistent aggregate value.
type DriftResponse struct {
	Field    string `json:"field"`
	Stored   string `json:"stored"`
	Expected string `json:"expected"`
}

// VerifyAccountResponse represents the result of a consistency audit.
type VerifyAccountResponse struct {
	AccountID        string          `json:"accountId"`
	Consistent       bool            `json:"consistent"`
	StoredBalance    string          `json:"storedBalance"`
	ExpectedBalance  string          `json:"expectedBalance"`
	IncomeTotal      string          `json:"incomeTotal"`
	ExpenseTotal     string          `json:"expenseTotal"`
	TransactionCount int64           `json:"transactionCount"`
	Drifts           []DriftResponse `json:"drifts"`
}

// ToAccountResponse converts an AccountOutput to an AccountResponse DTO.
func ToAccountResponse(output *account.AccountOutput) AccountResponse {
	return AccountResponse{
		ID:             output.ID.String(),
		OwnerID:        output.OwnerID.String(),
		Name:           output.Name,
		Currency:       output.Currency,
		OpeningBalance: output.OpeningBalance.StringFixed(2),
		Balance:        output.Balance.StringFixed(2),
		CreatedAt:      output.CreatedAt,
		UpdatedAt:      output.UpdatedAt,
	}
}

// ToAccountSummaryResponse converts a GetAccountSummaryOutput to an AccountSummaryResponse DTO.
func ToAccountSummaryResponse(output *account.GetAccountSummaryOutput) AccountSummaryResponse {
	a := output.Analytics
	months := make([]MonthPointResponse, len(output.Trend.Months))
	for i, m := range output.Trend.Months {
		months[i] = MonthPointResponse{
			Month:            m.Month.Format("2006-01"),
			Label:            m.Label,
			Income:           m.Income.StringFixed(2),
			Expense:          m.Expense.StringFixed(2),
			TransactionCount: m.TransactionCount,
		}
	}

	return AccountSummaryResponse{
		Account: ToAccountResponse(output.Account),
		Analytics: AnalyticsResponse{
			Income:                  a.Income.StringFixed(2),
			Expense:                 a.Expense.StringFixed(2),
			Balance:                 a.Balance.StringFixed(2),
			PreviousIncome:          a.PreviousIncome.StringFixed(2),
			PreviousExpense:         a.PreviousExpense.StringFixed(2),
			IncomePercentageChange:  a.IncomePercentageChange.StringFixed(2),
			ExpensePercentageChange: a.ExpensePercentageChange.StringFixed(2),
		},
		Trend: TrendResponse{
			Months:                  months,
			IncomeChangePercentage:  output.Trend.IncomeChangePercentage.StringFixed(2),
			ExpenseChangePercentage: output.Trend.ExpenseChangePercentage.StringFixed(2),
			IncomeForecast:          fixedStrings(output.Trend.IncomeForecast),
			ExpenseForecast:         fixedStrings(output.Trend.ExpenseForecast),
		},
	}
}

// ToVerifyAccountResponse converts a VerifyConsistencyOutput to a VerifyAccountResponse DTO.
func ToVerifyAccountResponse(output *ledger.VerifyConsistencyOutput) VerifyAccountResponse {
	drifts := make([]DriftResponse, len(output.Drifts))
	for i, d := range output.Drifts {
		drifts[i] = DriftResponse{
			Field:    d.Field,
			Stored:   d.Stored.StringFixed(2),
			Expected: d.Expected.StringFixed(2),
		}
	}

	return VerifyAccountResponse{
		AccountID:        output.AccountID.String(),
		Consistent:       output.Consistent,
		StoredBalance:    output.StoredBalance.StringFixed(2),
		ExpectedBalance:  output.ExpectedBalance.StringFixed(2),
		IncomeTotal:      output.IncomeTotal.StringFixed(2),
		ExpenseTotal:     output.ExpenseTotal.StringFixed(2),
		TransactionCount: output.TransactionCount,
		Drifts:           drifts,
	}
}

func fixedStrings(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.StringFixed(2)
	}
	return out
}
