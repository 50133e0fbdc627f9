package calculation

import (
	"context"
	"fmt"

	"github.com/fical/fi-calculator/internal/domain"
)

// BaselineScenarioName labels the unmodified plan in a comparison
const BaselineScenarioName = "baseline"

// CompareWhatIfs analyzes the plan as-is and under each scenario, then picks
// the scenario with the earliest achievable FI age and the one with the
// largest terminal balance. The baseline competes in both.
func (ce *CalculationEngine) CompareWhatIfs(ctx context.Context, plan *domain.Plan, scenarios []domain.NamedWhatIf) (*domain.WhatIfComparison, error) {
	base, err := ce.Analyze(ctx, plan, domain.WhatIf{})
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	comparison := &domain.WhatIfComparison{
		PlanName: plan.Name,
		Baseline: domain.ScenarioOutcome{
			Name:     BaselineScenarioName,
			Summary:  base.Summary,
			FIResult: base.FIResult,
		},
		Scenarios: make([]domain.ScenarioOutcome, 0, len(scenarios)),
	}

	for i, s := range scenarios {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("scenario-%d", i+1)
		}
		report, err := ce.Analyze(ctx, plan, s.WhatIf)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		comparison.Scenarios = append(comparison.Scenarios, domain.ScenarioOutcome{
			Name:      name,
			WhatIf:    s.WhatIf,
			Summary:   report.Summary,
			FIResult:  report.FIResult,
			Crossover: NetWorthCrossoverPoint(base.Projection, report.Projection),
		})
	}

	comparison.EarliestFIScenario, comparison.LargestTerminalScenario = pickLeaders(comparison)
	return comparison, nil
}

// pickLeaders names the earliest-FI and largest-terminal outcomes. Earlier
// entries win ties, so the baseline wins over an equivalent scenario.
func pickLeaders(c *domain.WhatIfComparison) (earliestFI, largestTerminal string) {
	outcomes := append([]domain.ScenarioOutcome{c.Baseline}, c.Scenarios...)

	bestAge := -1
	var bestTerminal *domain.ScenarioOutcome
	for i := range outcomes {
		o := &outcomes[i]
		if o.FIResult.Age != nil && (bestAge < 0 || *o.FIResult.Age < bestAge) {
			bestAge = *o.FIResult.Age
			earliestFI = o.Name
		}
		if bestTerminal == nil || o.Summary.TerminalBalance.GreaterThan(bestTerminal.Summary.TerminalBalance) {
			bestTerminal = o
		}
	}
	if bestTerminal != nil {
		largestTerminal = bestTerminal.Name
	}
	return earliestFI, largestTerminal
}
