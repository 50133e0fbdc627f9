package calculation

import (
	"testing"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	ce := newTestEngine()

	t.Run("funded plan", func(t *testing.T) {
		plan := flatPlan(40, 90, 40000, account("brokerage", domain.AccountTaxable, 1000000))
		plan.Assumptions.InvestmentReturn = dec(0.05)
		p := ce.GenerateProjection(plan, RunOptions{FIAge: 40})

		s := ce.Summarize(plan, p, domain.WhatIf{})

		assert.Equal(t, 40, s.FIAge)
		assert.Equal(t, "1000000.00", s.FINumber.StringFixed(2))
		assert.Equal(t, "1000000.00", s.CurrentNetWorth.StringFixed(2))
		assert.True(t, s.Gap.IsZero())
		assert.Equal(t, 65, s.RunwayAge)
		assert.False(t, s.HasShortfall)
		assert.Nil(t, s.ShortfallAge)
		assert.Equal(t, 30, s.BufferYears)
		assert.True(t, s.PeakNetWorth.GreaterThanOrEqual(s.TerminalBalance))
		assert.True(t, s.TotalTaxes.IsPositive(), "capital gains are taxed")
		assert.True(t, s.TotalPenalties.IsZero())
	})

	t.Run("short plan", func(t *testing.T) {
		plan := flatPlan(60, 70, 12000, account("cash", domain.AccountCash, 60000))
		plan.Assumptions.SafeWithdrawalRate = dec(0.03)
		p := ce.GenerateProjection(plan, RunOptions{FIAge: 60})

		s := ce.Summarize(plan, p, domain.WhatIf{})

		assert.Equal(t, "400000.00", s.FINumber.StringFixed(2))
		assert.Equal(t, "340000.00", s.Gap.StringFixed(2))
		assert.Equal(t, 65, s.RunwayAge)
		assert.True(t, s.HasShortfall)
		require.NotNil(t, s.ShortfallAge)
		assert.Equal(t, 65, *s.ShortfallAge)
		assert.Equal(t, -6, s.BufferYears)
	})

	t.Run("no spending", func(t *testing.T) {
		plan := flatPlan(60, 70, 0, account("cash", domain.AccountCash, 1000))
		s := ce.Summarize(plan, ce.GenerateProjection(plan, RunOptions{FIAge: 60}), domain.WhatIf{})
		assert.Equal(t, 70, s.RunwayAge)
		assert.True(t, s.FINumber.IsZero())
	})
}
