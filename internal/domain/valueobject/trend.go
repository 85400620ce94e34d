// Package valueobject contains immutable value types and pure calculations
// shared across the domain.
package valueobject

import "github.com/shopspring/decimal"

// MinForecastPoints is the smallest series ForecastNext will extrapolate from.
const MinForecastPoints = 3

// ForecastHorizon is the number of future points ForecastNext returns.
const ForecastHorizon = 2

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// PercentageChange returns the change from oldValue to newValue in percent,
// rounded to two decimals.
//
// Growth from zero is reported as 100 rather than infinity, and no change
// from zero is reported as 0.
func PercentageChange(oldValue, newValue decimal.Decimal) decimal.Decimal {
	if oldValue.IsZero() {
		if newValue.IsZero() {
			return decimal.Zero
		}
		return hundred
	}

	return newValue.Sub(oldValue).
		Div(oldValue.Abs()).
		Mul(hundred).
		Round(2)
}

// ForecastNext fits an ordinary least-squares line over the series, indexed
// 0..k-1, and returns the predicted values at k and k+1 rounded to two
// decimals. Fewer than MinForecastPoints values yield nil.
func ForecastNext(values []decimal.Decimal) []decimal.Decimal {
	k := len(values)
	if k < MinForecastPoints {
		return nil
	}

	n := decimal.NewFromInt(int64(k))
	xMean := decimal.NewFromInt(int64(k - 1)).Div(two)

	yMean := decimal.Zero
	for _, v := range values {
		yMean = yMean.Add(v)
	}
	yMean = yMean.Div(n)

	var sxy, sxx decimal.Decimal
	for i, v := range values {
		dx := decimal.NewFromInt(int64(i)).Sub(xMean)
		sxy = sxy.Add(dx.Mul(v.Sub(yMean)))
		sxx = sxx.Add(dx.Mul(dx))
	}

	slope := sxy.Div(sxx)
	intercept := yMean.Sub(slope.Mul(xMean))

	predictions := make([]decimal.Decimal, 0, ForecastHorizon)
	for step := 0; step < ForecastHorizon; step++ {
		x := decimal.NewFromInt(int64(k + step))
		predictions = append(predictions, intercept.Add(slope.Mul(x)).Round(2))
	}
	return predictions
}
