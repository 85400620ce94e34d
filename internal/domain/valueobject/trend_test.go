package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		name     string
		oldValue string
		newValue string
		want     string
	}{
		{"both zero", "0", "0", "0"},
		{"growth from zero", "0", "50", "100"},
		{"drop to negative from zero", "0", "-20", "100"},
		{"fifty percent growth", "100", "150", "50"},
		{"decline", "200", "150", "-25"},
		{"negative base uses magnitude", "-50", "-25", "50"},
		{"rounds to two decimals", "3", "4", "33.33"},
		{"unchanged", "42.5", "42.5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentageChange(dec(tt.oldValue), dec(tt.newValue))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("PercentageChange(%s, %s) = %s, want %s", tt.oldValue, tt.newValue, got, tt.want)
			}
		})
	}
}

func TestForecastNext(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"empty", nil, nil},
		{"two points is insufficient", []string{"10", "20"}, nil},
		{"linear series continues", []string{"10", "20", "30"}, []string{"40", "50"}},
		{"flat series", []string{"7", "7", "7", "7"}, []string{"7", "7"}},
		{"declining series", []string{"100", "80", "60"}, []string{"40", "20"}},
		{"noisy series", []string{"1", "3", "2", "4"}, []string{"4.5", "5.3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]decimal.Decimal, len(tt.values))
			for i, v := range tt.values {
				values[i] = dec(v)
			}

			got := ForecastNext(values)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d predictions, got %d (%v)", len(tt.want), len(got), got)
			}
			for i := range got {
				if !got[i].Equal(dec(tt.want[i])) {
					t.Errorf("prediction %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLastMonths(t *testing.T) {
	now := time.Date(2025, time.February, 14, 10, 0, 0, 0, time.UTC)

	periods := LastMonths(now, 3)
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}

	wantLabels := []string{"Dec 2024", "Jan 2025", "Feb 2025"}
	for i, p := range periods {
		if p.Label != wantLabels[i] {
			t.Errorf("period %d label = %s, want %s", i, p.Label, wantLabels[i])
		}
		if !p.End.Equal(p.Start.AddDate(0, 1, 0)) {
			t.Errorf("period %d does not span one month", i)
		}
	}

	if LastMonths(now, 0) != nil {
		t.Error("expected nil for zero months")
	}
}
