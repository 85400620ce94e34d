package valueobject

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MaxAmountDecimals is the number of fractional digits money amounts may carry.
const MaxAmountDecimals = 2

// IsKnownCurrency reports whether code is an ISO 4217 currency code.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// HasValidScale reports whether amount has at most two decimal places.
func HasValidScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MaxAmountDecimals))
}

// FormatMoney renders an amount for messages, e.g. "$1,200.50".
// Unknown currencies fall back to "1200.50 XYZ".
func FormatMoney(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if money.GetCurrency(code) == nil {
		return amount.StringFixed(MaxAmountDecimals) + " " + code
	}
	return money.New(amount.Shift(MaxAmountDecimals).Round(0).IntPart(), code).Display()
}
