package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the full console report: assumptions,
// summary, FI search result, the working-to-FI transition and the year table.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "FINANCIAL INDEPENDENCE PLAN: %s\n", planName(report.PlanName))
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "PLAN SUMMARY (FI at %d, base year %d)\n", report.Summary.FIAge, report.BaseYear)
	fmt.Fprintln(&buf, "=============================================")
	writeSummary(&buf, report.Summary)
	fmt.Fprintf(&buf, "Peak Net Worth: %s\n", FormatCurrency(report.Summary.PeakNetWorth))
	fmt.Fprintf(&buf, "Lifetime Taxes: %s\n", FormatCurrency(report.Summary.TotalTaxes))
	fmt.Fprintf(&buf, "Lifetime Penalties: %s\n", FormatCurrency(report.Summary.TotalPenalties))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ACHIEVABLE FI AGE")
	fmt.Fprintln(&buf, "=================")
	writeFIResult(&buf, report.FIResult)
	fmt.Fprintln(&buf)

	writeTransition(&buf, report.Projection)
	writeYearTable(&buf, report.Projection)

	return buf.Bytes(), nil
}

func (c ConsoleVerboseFormatter) FormatComparison(cmp *domain.WhatIfComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "WHAT-IF COMPARISON: %s\n", planName(cmp.PlanName))
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-24s %8s %18s %18s %10s\n", "SCENARIO", "FI AGE", "TERMINAL", "CHANGE", "CONFIDENCE")
	fmt.Fprintln(&buf, strings.Repeat("-", 82))
	b := cmp.Baseline
	fmt.Fprintf(&buf, "%-24s %8s %18s %18s %10s\n", b.Name, optionalAge(b.FIResult.Age),
		FormatCurrency(outcomeTerminal(b)), "", confidenceLabel(b.FIResult))
	deltas := AnalyzeScenarios(cmp)
	for i, d := range deltas {
		sc := cmp.Scenarios[i]
		fmt.Fprintf(&buf, "%-24s %8s %18s %18s %10s\n", sc.Name, optionalAge(sc.FIResult.Age)+ageChange(d),
			FormatCurrency(outcomeTerminal(sc)), signedCurrency(d.TerminalBalanceChange), confidenceLabel(sc.FIResult))
	}
	fmt.Fprintln(&buf)

	for i, sc := range cmp.Scenarios {
		title := fmt.Sprintf("SCENARIO %d: %s", i+1, sc.Name)
		fmt.Fprintln(&buf, title)
		fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
		fmt.Fprintf(&buf, "Changes: %s\n", DescribeWhatIf(sc.WhatIf))
		writeFIResult(&buf, sc.FIResult)
		fmt.Fprintf(&buf, "Terminal balance vs baseline: %s (%s)\n", signedCurrency(deltas[i].TerminalBalanceChange), signedPercentage(deltas[i]))
		if c := sc.Crossover; c != nil {
			fmt.Fprintf(&buf, "Net worth crosses baseline at age %d (%d), %s\n", c.Age, c.Year, FormatCurrency(c.NetWorth))
		} else {
			fmt.Fprintln(&buf, "Net worth never crosses baseline")
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
	fmt.Fprint(&buf, "=========================")
	writeLeaders(&buf, cmp)
	return buf.Bytes(), nil
}

// writeTransition compares the last working year with the first FI year
func writeTransition(buf *bytes.Buffer, p domain.Projection) {
	var working, fi *domain.YearProjection
	for i := range p {
		if p[i].Phase == domain.PhaseAccumulating {
			working = &p[i]
			continue
		}
		fi = &p[i]
		break
	}
	if working == nil || fi == nil {
		return
	}

	title := fmt.Sprintf("WORKING (%d) vs FI (%d)", working.Year, fi.Year)
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", len(title)))
	fmt.Fprintf(buf, "%-35s %15s %15s %15s\n", "COMPONENT", "WORKING", "FI", "DIFFERENCE")
	fmt.Fprintln(buf, strings.Repeat("-", 83))
	fmt.Fprintln(buf, "INCOME SOURCES:")
	cmpLine(buf, "  Employment (gross)", working.GrossIncome.Add(working.SpouseGrossIncome), fi.GrossIncome.Add(fi.SpouseGrossIncome))
	cmpLine(buf, "  Social Security", working.SocialSecurity.Add(working.SpouseSocialSecurity), fi.SocialSecurity.Add(fi.SpouseSocialSecurity))
	cmpLine(buf, "  Pension", working.Pension, fi.Pension)
	cmpLine(buf, "  Other Income", working.OtherIncome, fi.OtherIncome)
	cmpLine(buf, "  Withdrawals (net)", working.WithdrawalNet, fi.WithdrawalNet)
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "OUTFLOWS:")
	cmpLine(buf, "  Employment Tax", working.EmploymentTax, fi.EmploymentTax)
	cmpLine(buf, "  Contributions", working.Contributions, fi.Contributions)
	cmpLine(buf, "  Expenses", working.Expenses, fi.Expenses)
	cmpLine(buf, "  Withdrawal Taxes", working.WithdrawalTax.Add(working.WithdrawalState), fi.WithdrawalTax.Add(fi.WithdrawalState))
	cmpLine(buf, "  Penalties", working.Penalty, fi.Penalty)
	fmt.Fprintln(buf, strings.Repeat("-", 83))
	cmpLine(buf, "NET WORTH (year end)", working.NetWorth, fi.NetWorth)
	fmt.Fprintln(buf)
}

func writeYearTable(buf *bytes.Buffer, p domain.Projection) {
	fmt.Fprintln(buf, "YEAR-BY-YEAR PROJECTION")
	fmt.Fprintln(buf, "=======================")
	fmt.Fprintf(buf, "%4s %5s %-12s %15s %15s %15s %15s %15s %17s\n",
		"AGE", "YEAR", "PHASE", "NET INCOME", "PASSIVE", "EXPENSES", "WITHDRAWAL", "TAX+PENALTY", "NET WORTH")
	fmt.Fprintln(buf, strings.Repeat("-", 120))
	for _, y := range p {
		flag := ""
		if y.IsShortfall {
			flag = fmt.Sprintf("  SHORTFALL %s", FormatCurrency(y.UnmetNeed))
		}
		fmt.Fprintf(buf, "%4d %5d %-12s %15s %15s %15s %15s %15s %17s%s\n",
			y.Age, y.Year, y.Phase,
			FormatCurrency(y.NetIncome),
			FormatCurrency(y.PassiveIncome),
			FormatCurrency(y.Expenses),
			FormatCurrency(y.Withdrawal),
			FormatCurrency(y.WithdrawalTax.Add(y.WithdrawalState).Add(y.Penalty)),
			FormatCurrency(y.NetWorth),
			flag,
		)
	}
}

func cmpLine(buf *bytes.Buffer, label string, working, fi decimal.Decimal) {
	diff := fi.Sub(working)
	fmt.Fprintf(buf, "%-35s %15s %15s %15s\n", label, FormatCurrency(working), FormatCurrency(fi), FormatCurrency(diff))
}
