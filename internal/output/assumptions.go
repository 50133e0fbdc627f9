package output

import (
	"fmt"
	"strings"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// GenerateAssumptions creates the assumptions list from actual plan values
func GenerateAssumptions(plan *domain.Plan, whatIf domain.WhatIf) []string {
	a := plan.Assumptions
	order := calculation.ResolveWithdrawalOrder(a.WithdrawalOrder)
	names := make([]string, 0, len(order)+2)
	names = append(names, string(domain.AccountCash))
	for _, t := range order {
		names = append(names, string(t))
	}
	names = append(names, string(domain.AccountHSA))

	lines := []string{
		fmt.Sprintf("Investment return: %s annually", FormatRate(whatIf.EffectiveReturn(a.InvestmentReturn))),
		fmt.Sprintf("Inflation: %s annually", FormatRate(a.InflationRate)),
		fmt.Sprintf("Withdrawal taxes: traditional %s, capital gains %s", FormatRate(a.TraditionalTaxRate), FormatRate(a.CapitalGainsRate)),
		fmt.Sprintf("Early withdrawal penalty: %s before age %s", FormatRate(a.Penalties.EarlyWithdrawalRate), a.Penalties.PenaltyFreeAge.String()),
		fmt.Sprintf("Withdrawal order: %s", strings.Join(names, " > ")),
		fmt.Sprintf("Safe withdrawal rate: %s", FormatRate(a.SafeWithdrawalRate)),
	}
	if plan.Profile.State != "" {
		lines = append(lines, fmt.Sprintf("State of residence: %s", strings.ToUpper(plan.Profile.State)))
	}
	if !whatIf.IsZero() {
		lines = append(lines, "What-if: "+DescribeWhatIf(whatIf))
	}
	return lines
}

// DescribeWhatIf renders the deltas of a what-if in one line
func DescribeWhatIf(w domain.WhatIf) string {
	if w.IsZero() {
		return "no changes"
	}
	var parts []string
	if !w.SpendingMultiplierDelta.IsZero() {
		sign := "+"
		if w.SpendingMultiplierDelta.IsNegative() {
			sign = ""
		}
		parts = append(parts, "spending "+sign+w.SpendingMultiplierDelta.Mul(decimalHundred).StringFixed(0)+"%")
	}
	if w.ReturnOverride != nil {
		parts = append(parts, "return "+FormatRate(*w.ReturnOverride))
	}
	if w.SSClaimingAge != nil {
		parts = append(parts, fmt.Sprintf("claim SS at %d", *w.SSClaimingAge))
	}
	if w.SpouseSSClaimingAge != nil {
		parts = append(parts, fmt.Sprintf("spouse claims SS at %d", *w.SpouseSSClaimingAge))
	}
	return strings.Join(parts, ", ")
}

var decimalHundred = decimal.NewFromInt(100)
