package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// NetWorthCrossoverPoint finds the first year in which the net worth of b
// overtakes a or falls behind it. Projections must start in the same year.
// The crossing is interpolated linearly within the year. Paths that start out
// equal are only considered crossed once they diverge and come back across.
// Returns nil when the paths never cross.
func NetWorthCrossoverPoint(a, b domain.Projection) *domain.NetWorthCrossover {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return nil
	}

	prevDiff := b[0].NetWorth.Sub(a[0].NetWorth)
	for i := 1; i < n; i++ {
		currDiff := b[i].NetWorth.Sub(a[i].NetWorth)

		// Exact year-end crossing after the paths had diverged
		if money.Covered(currDiff.Abs()) && !money.Covered(prevDiff.Abs()) {
			return &domain.NetWorthCrossover{
				Age:      a[i].Age,
				Year:     a[i].Year,
				Fraction: money.One,
				NetWorth: a[i].NetWorth,
			}
		}

		if prevDiff.Sign()*currDiff.Sign() < 0 {
			// diff(t) = prevDiff + t*(currDiff - prevDiff); solve diff(t) = 0
			t := prevDiff.Neg().Div(currDiff.Sub(prevDiff))
			t = money.Max(decimal.Zero, money.Min(money.One, t))
			start := a[i-1].NetWorth
			at := start.Add(a[i].NetWorth.Sub(start).Mul(t))
			return &domain.NetWorthCrossover{
				Age:      a[i].Age,
				Year:     a[i].Year,
				Fraction: t.Round(4),
				NetWorth: money.RoundCents(at),
			}
		}

		if !money.Covered(currDiff.Abs()) {
			prevDiff = currDiff
		}
	}
	return nil
}
