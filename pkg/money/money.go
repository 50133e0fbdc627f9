// Package money holds small decimal helpers shared by the projection engine.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	One     = decimal.NewFromInt(1)
	Twelve  = decimal.NewFromInt(12)
	Hundred = decimal.NewFromInt(100)
)

// Cent is the smallest amount the engine cares about when checking coverage.
var Cent = decimal.NewFromFloat(0.01)

// RoundCents rounds an amount to cents using half-away-from-zero rounding
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compound returns (1+rate)^periods. Non-positive periods return 1.
func Compound(rate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return One
	}
	return One.Add(rate).Pow(decimal.NewFromInt(int64(periods)))
}

// Grow applies Compound to amount
func Grow(amount, rate decimal.Decimal, periods int) decimal.Decimal {
	if rate.IsZero() || periods <= 0 {
		return amount
	}
	return amount.Mul(Compound(rate, periods))
}

// Max returns the larger of a and b
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// NonNegative floors d at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Annual converts a monthly amount to annual
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(Twelve)
}

// Monthly converts an annual amount (or rate) to monthly
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(Twelve)
}

// FromPercent converts 5 into 0.05
func FromPercent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(Hundred)
}

// Covered reports whether the remaining need is within a cent of zero
func Covered(remaining decimal.Decimal) bool {
	return remaining.LessThan(Cent)
}
