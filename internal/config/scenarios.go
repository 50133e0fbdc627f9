package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
)

// scenarioFile is the document shape of a what-if scenario file
type scenarioFile struct {
	Scenarios []domain.NamedWhatIf `yaml:"scenarios"`
}

// LoadScenarios reads a what-if scenario file in any supported format
func LoadScenarios(filename string) ([]domain.NamedWhatIf, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ParseScenarios(data, FormatForFile(filename))
}

// ParseScenarios decodes and validates a scenario document
func ParseScenarios(data []byte, format Format) ([]domain.NamedWhatIf, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	canonical, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode scenarios: %w", err)
	}
	var file scenarioFile
	if err := yaml.Unmarshal(canonical, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}
	if err := ValidateScenarios(file.Scenarios); err != nil {
		return nil, err
	}
	return file.Scenarios, nil
}

// ValidateScenarios requires at least one scenario, unique non-empty names
// and supported claiming ages.
func ValidateScenarios(scenarios []domain.NamedWhatIf) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("%w: at least one scenario is required", domain.ErrInvalidPlan)
	}
	seen := make(map[string]bool, len(scenarios))
	for i, s := range scenarios {
		if s.Name == "" {
			return fmt.Errorf("%w: scenarios[%d]: name is required", domain.ErrInvalidPlan, i)
		}
		if s.Name == calculation.BaselineScenarioName {
			return fmt.Errorf("%w: scenario name %q is reserved", domain.ErrInvalidPlan, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate scenario name %q", domain.ErrInvalidPlan, s.Name)
		}
		seen[s.Name] = true

		if s.WhatIf.SpendingMultiplierDelta.LessThanOrEqual(decimal.NewFromInt(-1)) {
			return fmt.Errorf("%w: scenario %q: spending delta must be above -100%%", domain.ErrInvalidPlan, s.Name)
		}
		for _, age := range []*int{s.WhatIf.SSClaimingAge, s.WhatIf.SpouseSSClaimingAge} {
			if age == nil {
				continue
			}
			if _, err := calculation.ClaimingFactor(*age); err != nil {
				return fmt.Errorf("scenario %q: %w", s.Name, err)
			}
		}
	}
	return nil
}

// DefaultScenarios is the comparison set used when no scenario file is given
func DefaultScenarios() []domain.NamedWhatIf {
	lowReturn := decimal.NewFromFloat(0.04)
	delayedSS := 70
	return []domain.NamedWhatIf{
		{Name: "spend-10pct-less", WhatIf: domain.WhatIf{SpendingMultiplierDelta: decimal.NewFromFloat(-0.10)}},
		{Name: "spend-10pct-more", WhatIf: domain.WhatIf{SpendingMultiplierDelta: decimal.NewFromFloat(0.10)}},
		{Name: "low-returns", WhatIf: domain.WhatIf{ReturnOverride: &lowReturn}},
		{Name: "claim-ss-at-70", WhatIf: domain.WhatIf{SSClaimingAge: &delayedSS}},
	}
}
