package domain

import (
	"github.com/shopspring/decimal"
)

// NamedWhatIf is a labelled scenario to compare against the baseline plan
type NamedWhatIf struct {
	Name   string `yaml:"name" json:"name"`
	WhatIf WhatIf `yaml:"what_if" json:"what_if"`
}

// ScenarioOutcome is the headline result of one scenario
type ScenarioOutcome struct {
	Name     string             `json:"name"`
	WhatIf   WhatIf             `json:"what_if"`
	Summary  Summary            `json:"summary"`
	FIResult AchievableFIResult `json:"fi_result"`
	// Crossover against the baseline net worth path, nil when the paths never cross
	Crossover *NetWorthCrossover `json:"crossover,omitempty"`
}

// NetWorthCrossover is the point where two projections' net worth paths cross
type NetWorthCrossover struct {
	Age      int             `json:"age"`
	Year     int             `json:"year"`
	Fraction decimal.Decimal `json:"fraction"` // share of the year elapsed at the crossing, 1 = year end
	NetWorth decimal.Decimal `json:"net_worth"`
}

// WhatIfComparison compares scenarios against the unmodified plan
type WhatIfComparison struct {
	PlanName  string            `json:"plan_name"`
	Baseline  ScenarioOutcome   `json:"baseline"`
	Scenarios []ScenarioOutcome `json:"scenarios"`

	EarliestFIScenario      string `json:"earliest_fi_scenario,omitempty"`
	LargestTerminalScenario string `json:"largest_terminal_scenario,omitempty"`
}
