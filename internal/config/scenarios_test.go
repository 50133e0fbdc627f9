package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fical/fi-calculator/internal/domain"
)

func TestParseScenarios_YAML(t *testing.T) {
	doc := `
scenarios:
  - name: lean
    what_if:
      spending_multiplier_delta: -0.2
  - name: late-ss
    what_if:
      ss_claiming_age: 70
      return_override: 0.05
`
	scenarios, err := ParseScenarios([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "lean", scenarios[0].Name)
	assert.Equal(t, "-0.2", scenarios[0].WhatIf.SpendingMultiplierDelta.String())
	require.NotNil(t, scenarios[1].WhatIf.SSClaimingAge)
	assert.Equal(t, 70, *scenarios[1].WhatIf.SSClaimingAge)
	require.NotNil(t, scenarios[1].WhatIf.ReturnOverride)
	assert.Equal(t, "0.05", scenarios[1].WhatIf.ReturnOverride.String())
}

func TestParseScenarios_TOML(t *testing.T) {
	doc := `
[[scenarios]]
name = "spouse-early"
[scenarios.what_if]
spouse_ss_claiming_age = 62
`
	scenarios, err := ParseScenarios([]byte(doc), FormatTOML)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	require.NotNil(t, scenarios[0].WhatIf.SpouseSSClaimingAge)
	assert.Equal(t, 62, *scenarios[0].WhatIf.SpouseSSClaimingAge)
}

func TestLoadScenarios_JSONFile(t *testing.T) {
	path := writeFile(t, "scenarios.json", `{"scenarios": [{"name": "a", "what_if": {"spending_multiplier_delta": 0.1}}]}`)
	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "0.1", scenarios[0].WhatIf.SpendingMultiplierDelta.String())
}

func TestValidateScenarios(t *testing.T) {
	age := 65
	tests := []struct {
		name      string
		scenarios []domain.NamedWhatIf
		wantMsg   string
	}{
		{"empty", nil, "at least one scenario"},
		{"no name", []domain.NamedWhatIf{{}}, "name is required"},
		{"reserved", []domain.NamedWhatIf{{Name: "baseline"}}, "reserved"},
		{"duplicate", []domain.NamedWhatIf{{Name: "a"}, {Name: "a"}}, "duplicate scenario name"},
		{"claiming age", []domain.NamedWhatIf{{Name: "a", WhatIf: domain.WhatIf{SSClaimingAge: &age}}}, "claiming age"},
		{"spending", []domain.NamedWhatIf{{Name: "a", WhatIf: domain.WhatIf{SpendingMultiplierDelta: decimal.NewFromInt(-1)}}}, "above -100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenarios(tt.scenarios)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	assert.NoError(t, ValidateScenarios(DefaultScenarios()))
}
