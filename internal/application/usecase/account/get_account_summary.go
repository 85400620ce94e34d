package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// DefaultTrendMonths is used when no month count is configured.
const DefaultTrendMonths = 6

// GetAccountSummaryInput represents the input for an account summary.
type GetAccountSummaryInput struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

// AnalyticsOutput mirrors the stored analytics record.
type AnalyticsOutput struct {
	Income                  decimal.Decimal
	Expense                 decimal.Decimal
	Balance                 decimal.Decimal
	PreviousIncome          decimal.Decimal
	PreviousExpense         decimal.Decimal
	IncomePercentageChange  decimal.Decimal
	ExpensePercentageChange decimal.Decimal
}

// MonthPoint is one month of the income/expense series.
type MonthPoint struct {
	Month            time.Time
	Label            string
	Income           decimal.Decimal
	Expense          decimal.Decimal
	TransactionCount int
}

// TrendOutput holds the monthly series, month-over-month change and forecast.
type TrendOutput struct {
	Months                  []MonthPoint
	IncomeChangePercentage  decimal.Decimal
	ExpenseChangePercentage decimal.Decimal
	IncomeForecast          []decimal.Decimal // Empty with fewer than three months
	ExpenseForecast         []decimal.Decimal
}

// GetAccountSummaryOutput represents the output of an account summary.
type GetAccountSummaryOutput struct {
	Account   *AccountOutput
	Analytics AnalyticsOutput
	Trend     TrendOutput
}

// GetAccountSummaryUseCase builds the balance, analytics and trend view of an account.
type GetAccountSummaryUseCase struct {
	accountRepo     adapter.AccountRepository
	aggregateStore  adapter.AggregateStore
	transactionRepo adapter.TransactionRepository
	months          int
	now             func() time.Time
}

// NewGetAccountSummaryUseCase creates a new GetAccountSummaryUseCase instance.
func NewGetAccountSummaryUseCase(
	accountRepo adapter.AccountRepository,
	aggregateStore adapter.AggregateStore,
	transactionRepo adapter.TransactionRepository,
	months int,
) *GetAccountSummaryUseCase {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	return &GetAccountSummaryUseCase{
		accountRepo:     accountRepo,
		aggregateStore:  aggregateStore,
		transactionRepo: transactionRepo,
		months:          months,
		now:             time.Now,
	}
}

// Execute builds the summary.
func (uc *GetAccountSummaryUseCase) Execute(ctx context.Context, input GetAccountSummaryInput) (*GetAccountSummaryOutput, error) {
	account, err := findOwnedAccount(ctx, uc.accountRepo, input.AccountID, input.UserID)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.aggregateStore.Get(ctx, account.ID)
	if err != nil {
		return nil, domainerror.NewAccountError(
			domainerror.ErrCodeAccountInternal,
			"Failed to load account aggregates",
			err,
		)
	}

	trend, err := uc.buildTrend(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	out := toAccountOutput(account)
	out.Balance = snapshot.Balance

	a := snapshot.Analytics
	return &GetAccountSummaryOutput{
		Account: out,
		Analytics: AnalyticsOutput{
			Income:                  a.Income,
			Expense:                 a.Expense,
			Balance:                 a.Balance,
			PreviousIncome:          a.PreviousIncome,
			PreviousExpense:         a.PreviousExpense,
			IncomePercentageChange:  a.IncomePercentageChange,
			ExpensePercentageChange: a.ExpensePercentageChange,
		},
		Trend: trend,
	}, nil
}

// buildTrend buckets live transactions into calendar months, filling gaps with zeros.
func (uc *GetAccountSummaryUseCase) buildTrend(ctx context.Context, accountID uuid.UUID) (TrendOutput, error) {
	periods := valueobject.LastMonths(uc.now(), uc.months)
	start := periods[0].Start
	end := periods[len(periods)-1].End

	transactions, err := uc.transactionRepo.FindByFilter(ctx, adapter.TransactionFilter{
		AccountID: accountID,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return TrendOutput{}, fmt.Errorf("failed to load transactions for trend: %w", err)
	}

	points := make([]MonthPoint, len(periods))
	index := make(map[time.Time]int, len(periods))
	for i, period := range periods {
		points[i] = MonthPoint{
			Month:   period.Start,
			Label:   period.Label,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		index[period.Start] = i
	}

	for _, tx := range transactions {
		i, ok := index[valueobject.MonthStart(tx.CreatedAt)]
		if !ok {
			continue
		}
		if tx.IsIncome {
			points[i].Income = points[i].Income.Add(tx.Amount)
		} else {
			points[i].Expense = points[i].Expense.Add(tx.Amount)
		}
		points[i].TransactionCount++
	}

	incomes := make([]decimal.Decimal, len(points))
	expenses := make([]decimal.Decimal, len(points))
	for i, p := range points {
		incomes[i] = p.Income
		expenses[i] = p.Expense
	}

	trend := TrendOutput{
		Months:                  points,
		IncomeChangePercentage:  decimal.Zero,
		ExpenseChangePercentage: decimal.Zero,
		IncomeForecast:          valueobject.ForecastNext(incomes),
		ExpenseForecast:         valueobject.ForecastNext(expenses),
	}
	if n := len(points); n >= 2 {
		trend.IncomeChangePercentage = valueobject.PercentageChange(incomes[n-2], incomes[n-1])
		trend.ExpenseChangePercentage = valueobject.PercentageChange(expenses[n-2], expenses[n-1])
	}
	return trend, nil
}
