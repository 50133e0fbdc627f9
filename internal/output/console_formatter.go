package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "FI PLAN SUMMARY: %s\n", planName(report.PlanName))
	fmt.Fprintln(&buf, "================================")
	writeSummary(&buf, report.Summary)
	fmt.Fprintln(&buf)
	writeFIResult(&buf, report.FIResult)
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) FormatComparison(cmp *domain.WhatIfComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "WHAT-IF COMPARISON: %s\n", planName(cmp.PlanName))
	fmt.Fprintln(&buf, "================================")
	b := cmp.Baseline
	fmt.Fprintf(&buf, "%s: FIAge=%s Terminal=%s Confidence=%s\n",
		b.Name, optionalAge(b.FIResult.Age), FormatCurrency(outcomeTerminal(b)), confidenceLabel(b.FIResult))
	for i, d := range AnalyzeScenarios(cmp) {
		sc := cmp.Scenarios[i]
		fmt.Fprintf(&buf, "%s: FIAge=%s%s Terminal=%s (%s / %s)\n",
			sc.Name, optionalAge(sc.FIResult.Age), ageChange(d), FormatCurrency(outcomeTerminal(sc)),
			signedCurrency(d.TerminalBalanceChange), signedPercentage(d))
	}
	writeLeaders(&buf, cmp)
	return buf.Bytes(), nil
}

// FormatSummary renders the plan summary block on its own
func FormatSummary(s domain.Summary) []byte {
	var buf bytes.Buffer
	writeSummary(&buf, s)
	return buf.Bytes()
}

// FormatFIResult renders the achievable FI age block on its own
func FormatFIResult(r domain.AchievableFIResult) []byte {
	var buf bytes.Buffer
	writeFIResult(&buf, r)
	return buf.Bytes()
}

func planName(name string) string {
	if name == "" {
		return "unnamed plan"
	}
	return name
}

func writeSummary(w io.Writer, s domain.Summary) {
	fmt.Fprintf(w, "Target FI Age: %d\n", s.FIAge)
	fmt.Fprintf(w, "FI Number: %s\n", FormatCurrency(s.FINumber))
	fmt.Fprintf(w, "Current Net Worth: %s\n", FormatCurrency(s.CurrentNetWorth))
	fmt.Fprintf(w, "Gap: %s\n", FormatCurrency(s.Gap))
	fmt.Fprintf(w, "Runway Age: %d\n", s.RunwayAge)
	fmt.Fprintf(w, "Terminal Balance: %s\n", FormatCurrency(s.TerminalBalance))
	fmt.Fprintf(w, "Shortfall: %s\n", shortfallLabel(s))
	fmt.Fprintf(w, "Buffer Years: %d\n", s.BufferYears)
}

func writeFIResult(w io.Writer, r domain.AchievableFIResult) {
	if !r.Achievable() {
		fmt.Fprintln(w, "Achievable FI Age: not achievable")
		if g := r.Guidance; g != nil {
			fmt.Fprintf(w, "Runs Out At Age: %d\n", g.RunsOutAtAge)
			if g.SpendingCutPercent != nil {
				fmt.Fprintf(w, "Spending Cut Needed: %s%%\n", g.SpendingCutPercent.String())
			} else {
				fmt.Fprintln(w, "Spending Cut Needed: no tested cut is enough")
			}
			fmt.Fprintf(w, "Additional Annual Savings: %s\n", FormatCurrency(g.AdditionalAnnualSavings))
			fmt.Fprintf(w, "Total Unmet Need: %s\n", FormatCurrency(g.TotalUnmetNeed))
		}
		return
	}

	when := "now"
	if !r.FIAtCurrentAge {
		when = fmt.Sprintf("in %d years", r.YearsUntilFI)
	}
	fmt.Fprintf(w, "Achievable FI Age: %d (%s)\n", *r.Age, when)
	fmt.Fprintf(w, "Confidence: %s (buffer %d years, %s)\n", r.Confidence, r.BufferYears, depletionLabel(r.DepletionAge))
}

func writeLeaders(w io.Writer, cmp *domain.WhatIfComparison) {
	fmt.Fprintln(w)
	if cmp.EarliestFIScenario != "" {
		fmt.Fprintf(w, "Earliest FI: %s\n", cmp.EarliestFIScenario)
	}
	if cmp.LargestTerminalScenario != "" {
		fmt.Fprintf(w, "Largest Terminal Balance: %s\n", cmp.LargestTerminalScenario)
	}
}

func shortfallLabel(s domain.Summary) string {
	if !s.HasShortfall || s.ShortfallAge == nil {
		return "none"
	}
	return fmt.Sprintf("at age %d", *s.ShortfallAge)
}

func depletionLabel(age int) string {
	if age > calculation.MaxProbeAge {
		return fmt.Sprintf("never depletes by %d", calculation.MaxProbeAge)
	}
	return fmt.Sprintf("depletion age %d", age)
}

func confidenceLabel(r domain.AchievableFIResult) string {
	if !r.Achievable() {
		return "none"
	}
	return string(r.Confidence)
}

func outcomeTerminal(o domain.ScenarioOutcome) decimal.Decimal {
	if o.FIResult.Achievable() {
		return o.FIResult.TerminalBalance
	}
	return o.Summary.TerminalBalance
}

func ageChange(d ScenarioDelta) string {
	switch {
	case d.FIAgeChange != nil:
		return fmt.Sprintf(" (%+d)", *d.FIAgeChange)
	case d.BecameAchievable:
		return " (now achievable)"
	case d.BecameUnachievable:
		return " (no longer achievable)"
	}
	return ""
}

func signedCurrency(v decimal.Decimal) string {
	if v.IsNegative() {
		return FormatCurrency(v)
	}
	return "+" + FormatCurrency(v)
}

func signedPercentage(d ScenarioDelta) string {
	if d.PercentageChange.IsNegative() {
		return FormatPercentage(d.PercentageChange)
	}
	return "+" + FormatPercentage(d.PercentageChange)
}
