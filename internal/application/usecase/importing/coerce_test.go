package importing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMatchColumns(t *testing.T) {
	columns, missing := matchColumns([]string{"text", " AMOUNT ", "Type", "transfer", "Date", "Notes"})
	if len(missing) != 1 || missing[0] != ColumnCategory {
		t.Fatalf("expected only Category missing, got %v", missing)
	}
	if columns[ColumnAmount] != " AMOUNT " {
		t.Errorf("expected Amount to map to the file header, got %q", columns[ColumnAmount])
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "12.50", want: "12.5"},
		{raw: "1 200", want: "1200"},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "1.999", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		raw      string
		isIncome bool
		wantErr  bool
	}{
		{raw: "Income", isIncome: true},
		{raw: "in", isIncome: true},
		{raw: "CREDIT", isIncome: true},
		{raw: "expense"},
		{raw: "Out"},
		{raw: "debit"},
		{raw: "transfer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseType(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.isIncome {
				t.Errorf("isIncome = %v, want %v", got, tt.isIncome)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "2025-01-05"},
		{raw: "05/01/2025"},
		{raw: "2025/01/05"},
		{raw: "2025-01-05T00:00:00Z"},
		{raw: "45662"},
		{raw: "yesterday", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseDate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}
