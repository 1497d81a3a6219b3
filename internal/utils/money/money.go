// Package money holds the arithmetic rules shared by discount and fine
// calculations. All amounts are exact decimals; results are rounded half-up
// to 2 decimal places exactly once per computed amount, never compounded.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentageOf returns base * pct / 100 rounded half-up to 2 decimal places.
func PercentageOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred).Round(2)
}

// CapAt caps v at max. Used for fixed-amount discounts, which may never
// exceed the charge they apply to; fines are uncapped.
func CapAt(v, max decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(max) {
		return max
	}
	return v
}
