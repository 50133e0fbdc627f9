package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeScenarios_DeltasAgainstBaseline(t *testing.T) {
	deltas := AnalyzeScenarios(buildTestComparison())
	require.Len(t, deltas, 2)

	spend := deltas[0]
	assert.Equal(t, "spend-less", spend.Name)
	require.NotNil(t, spend.FIAgeChange)
	assert.Equal(t, -2, *spend.FIAgeChange)
	assert.True(t, spend.TerminalBalanceChange.Equal(decimal.NewFromInt(190000)))
	assert.Equal(t, "50", spend.PercentageChange.String())
	require.NotNil(t, spend.FirstCrossoverAge)
	assert.Equal(t, 52, *spend.FirstCrossoverAge)

	bear := deltas[1]
	assert.Nil(t, bear.FIAgeChange)
	assert.True(t, bear.BecameUnachievable)
	assert.False(t, bear.BecameAchievable)
	assert.Nil(t, bear.FirstCrossoverAge)
	// an unachievable scenario is measured by its summary terminal balance
	assert.True(t, bear.TerminalBalanceChange.Equal(decimal.NewFromInt(30000)))
}

func TestAnalyzeScenarios_ZeroBaselineTerminal(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Baseline.FIResult.TerminalBalance = decimal.Zero

	deltas := AnalyzeScenarios(cmp)
	assert.True(t, deltas[0].PercentageChange.IsZero())
}

func TestDescribeWhatIf(t *testing.T) {
	cmp := buildTestComparison()
	assert.Equal(t, "no changes", DescribeWhatIf(cmp.Baseline.WhatIf))
	assert.Equal(t, "spending -10%", DescribeWhatIf(cmp.Scenarios[0].WhatIf))

	w := cmp.Scenarios[1].WhatIf
	w.SpendingMultiplierDelta = decimal.NewFromFloat(0.05)
	w.SSClaimingAge = intPtr(70)
	w.SpouseSSClaimingAge = intPtr(62)
	assert.Equal(t, "spending +5%, return 3.0%, claim SS at 70, spouse claims SS at 62", DescribeWhatIf(w))
}
