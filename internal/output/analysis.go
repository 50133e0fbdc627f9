package output

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ScenarioDelta is one scenario measured against the baseline.
type ScenarioDelta struct {
	Name string

	// FIAgeChange is nil when either side has no achievable FI age
	FIAgeChange           *int
	TerminalBalanceChange decimal.Decimal
	PercentageChange      decimal.Decimal
	BecameAchievable      bool
	BecameUnachievable    bool
	FirstCrossoverAge     *int
}

// AnalyzeScenarios computes each scenario's change against the baseline, in
// scenario order. Extracted from the console formatters for testability.
func AnalyzeScenarios(cmp *domain.WhatIfComparison) []ScenarioDelta {
	base := cmp.Baseline
	baseTerminal := base.FIResult.TerminalBalance
	if !base.FIResult.Achievable() {
		baseTerminal = base.Summary.TerminalBalance
	}

	deltas := make([]ScenarioDelta, 0, len(cmp.Scenarios))
	for _, sc := range cmp.Scenarios {
		terminal := sc.FIResult.TerminalBalance
		if !sc.FIResult.Achievable() {
			terminal = sc.Summary.TerminalBalance
		}
		d := ScenarioDelta{
			Name:                  sc.Name,
			TerminalBalanceChange: terminal.Sub(baseTerminal),
			BecameAchievable:      sc.FIResult.Achievable() && !base.FIResult.Achievable(),
			BecameUnachievable:    !sc.FIResult.Achievable() && base.FIResult.Achievable(),
		}
		if sc.FIResult.Achievable() && base.FIResult.Achievable() {
			change := *sc.FIResult.Age - *base.FIResult.Age
			d.FIAgeChange = &change
		}
		if !baseTerminal.IsZero() {
			d.PercentageChange = d.TerminalBalanceChange.Div(baseTerminal.Abs()).Mul(decimalHundred).Round(2)
		}
		if sc.Crossover != nil {
			age := sc.Crossover.Age
			d.FirstCrossoverAge = &age
		}
		deltas = append(deltas, d)
	}
	return deltas
}
