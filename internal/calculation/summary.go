package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultSafeWithdrawalRate is used for the FI number when a plan leaves it unset
var DefaultSafeWithdrawalRate = decimal.NewFromFloat(0.04)

// Summarize aggregates a projection run at the plan's target FI age.
// The buffer comes from the same projection extended to MaxProbeAge and may be
// negative when the plan depletes before life expectancy.
func (ce *CalculationEngine) Summarize(plan *domain.Plan, projection domain.Projection, whatIf domain.WhatIf) domain.Summary {
	profile := plan.Profile
	fiAge := targetFIAge(plan)

	s := domain.Summary{
		FIAge:           fiAge,
		CurrentNetWorth: plan.TotalBalance(),
		TerminalBalance: projection.TerminalBalance(),
		RunwayAge:       profile.LifeExpectancy,
	}

	firstYearSpending := decimal.Zero
	if len(projection) > 0 {
		firstYearSpending = projection[0].Expenses
	}

	swr := plan.Assumptions.SafeWithdrawalRate
	if !swr.IsPositive() {
		swr = DefaultSafeWithdrawalRate
	}
	s.FINumber = money.RoundCents(firstYearSpending.Div(swr))
	s.Gap = money.NonNegative(s.FINumber.Sub(s.CurrentNetWorth))

	if firstYearSpending.IsPositive() {
		years := s.CurrentNetWorth.Div(firstYearSpending).Floor().IntPart()
		s.RunwayAge = profile.CurrentAge + int(years)
	}

	for _, y := range projection {
		if y.NetWorth.GreaterThan(s.PeakNetWorth) {
			s.PeakNetWorth = y.NetWorth
		}
		s.TotalTaxes = s.TotalTaxes.Add(y.TotalTax())
		s.TotalPenalties = s.TotalPenalties.Add(y.Penalty)
	}

	if y, ok := projection.FirstShortfall(); ok {
		age := y.Age
		s.HasShortfall = true
		s.ShortfallAge = &age
	}

	s.BufferYears = BufferYears(ce.DepletionAge(plan, fiAge, whatIf), profile.LifeExpectancy)
	return s
}
