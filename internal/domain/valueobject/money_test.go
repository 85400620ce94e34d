package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestHasValidScale(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"10", true},
		{"10.5", true},
		{"10.55", true},
		{"10.555", false},
		{"0.001", false},
		{"10.500", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := HasValidScale(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Errorf("HasValidScale(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"dollars", "1200.5", "USD", "$1,200.50"},
		{"lowercase code", "70", "usd", "$70.00"},
		{"unknown code", "12.3", "XYZ", "12.30 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoney(decimal.RequireFromString(tt.amount), tt.currency); got != tt.want {
				t.Errorf("FormatMoney() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKnownCurrency(t *testing.T) {
	if !IsKnownCurrency("eur") {
		t.Error("expected EUR to be known")
	}
	if IsKnownCurrency("ABC") {
		t.Error("expected ABC to be unknown")
	}
}
