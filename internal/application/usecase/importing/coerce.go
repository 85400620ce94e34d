// Package importing stages uploaded spreadsheets and replays confirmed
// batches through the ledger.
package importing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// Column names every uploaded sheet must carry. Matching is case-insensitive.
const (
	ColumnText     = "Text"
	ColumnAmount   = "Amount"
	ColumnType     = "Type"
	ColumnTransfer = "Transfer"
	ColumnCategory = "Category"
	ColumnDate     = "Date"
)

// RequiredColumns lists the columns in the order they are reported when missing.
var RequiredColumns = []string{ColumnText, ColumnAmount, ColumnType, ColumnTransfer, ColumnCategory, ColumnDate}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
}

// Excel serials cover 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

var (
	errEmptyText     = errors.New("text is required")
	errTextTooLong   = fmt.Errorf("text must be at most %d characters", ledger.MaxTextLength)
	errEmptyCategory = errors.New("category is required")
	errCategoryLong  = fmt.Errorf("category must be at most %d characters", category.MaxCategoryNameLength)
)

// matchColumns maps each required column to the header text used in the file.
// It returns the required columns that are absent.
func matchColumns(headers []string) (map[string]string, []string) {
	byFold := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := byFold[key]; !seen && key != "" {
			byFold[key] = h
		}
	}

	columns := make(map[string]string, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		header, ok := byFold[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		columns[col] = header
	}
	return columns, missing
}

// coerceRow converts one sheet row into a staged row. The category is
// validated here and resolved later.
func coerceRow(number int, values map[string]string, columns map[string]string) (*entity.StagedRow, error) {
	get := func(col string) string {
		return strings.TrimSpace(values[columns[col]])
	}

	text := get(ColumnText)
	if text == "" {
		return nil, errEmptyText
	}
	if utf8.RuneCountInString(text) > ledger.MaxTextLength {
		return nil, errTextTooLong
	}

	amount, err := parseAmount(get(ColumnAmount))
	if err != nil {
		return nil, err
	}

	isIncome, err := parseType(get(ColumnType))
	if err != nil {
		return nil, err
	}

	date, err := parseDate(get(ColumnDate))
	if err != nil {
		return nil, err
	}

	categoryName := strings.Join(strings.Fields(get(ColumnCategory)), " ")
	if categoryName == "" {
		return nil, errEmptyCategory
	}
	if utf8.RuneCountInString(categoryName) > category.MaxCategoryNameLength {
		return nil, errCategoryLong
	}

	return &entity.StagedRow{
		RowNumber:    number,
		Text:         text,
		Amount:       amount,
		IsIncome:     isIncome,
		Transfer:     get(ColumnTransfer),
		CategoryName: categoryName,
		Date:         date,
		Status:       entity.StagedRowPending,
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("amount is required")
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, " ", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %q must be greater than zero", raw)
	}
	if !valueobject.HasValidScale(amount) {
		return decimal.Zero, fmt.Errorf("amount %q has more than %d decimal places", raw, valueobject.MaxAmountDecimals)
	}
	return amount, nil
}

func parseType(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "income", "in", "credit":
		return true, nil
	case "expense", "out", "debit":
		return false, nil
	default:
		return false, fmt.Errorf("type %q must be income or expense", raw)
	}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not a recognised date", raw)
}
