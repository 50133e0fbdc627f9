package output

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/fical/fi-calculator/internal/domain"
)

// CSVDetailedExporter writes the year-by-year projection, one row per year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "csv" }

var yearTableHeader = []string{
	"Age", "SpouseAge", "Year", "Phase",
	"GrossIncome", "SpouseGrossIncome", "EmploymentTax", "Contributions", "NetIncome",
	"SocialSecurity", "SpouseSocialSecurity", "Pension", "OtherIncome", "PassiveIncome",
	"Expenses", "LifeEvents", "MortgagePayment", "MortgageBalance",
	"Deficit", "Surplus", "SurplusRouted",
	"Withdrawal", "WithdrawalNet", "WithdrawalTax", "WithdrawalStateTax", "Penalty",
	"Cash", "Taxable", "Traditional", "Roth", "HSA", "529", "Other",
	"NetWorth", "IsShortfall", "UnmetNeed", "Sources",
}

func (c CSVDetailedExporter) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(yearTableHeader); err != nil {
		return nil, err
	}
	for _, y := range report.Projection {
		b := y.Balances
		row := []string{
			intToString(y.Age),
			intToString(y.SpouseAge),
			intToString(y.Year),
			string(y.Phase),
			y.GrossIncome.StringFixed(2),
			y.SpouseGrossIncome.StringFixed(2),
			y.EmploymentTax.StringFixed(2),
			y.Contributions.StringFixed(2),
			y.NetIncome.StringFixed(2),
			y.SocialSecurity.StringFixed(2),
			y.SpouseSocialSecurity.StringFixed(2),
			y.Pension.StringFixed(2),
			y.OtherIncome.StringFixed(2),
			y.PassiveIncome.StringFixed(2),
			y.Expenses.StringFixed(2),
			y.LifeEvents.StringFixed(2),
			y.MortgagePayment.StringFixed(2),
			y.MortgageBalance.StringFixed(2),
			y.Deficit.StringFixed(2),
			y.Surplus.StringFixed(2),
			y.SurplusRouted.StringFixed(2),
			y.Withdrawal.StringFixed(2),
			y.WithdrawalNet.StringFixed(2),
			y.WithdrawalTax.StringFixed(2),
			y.WithdrawalState.StringFixed(2),
			y.Penalty.StringFixed(2),
			b.Cash.StringFixed(2),
			b.Taxable.StringFixed(2),
			b.Traditional.StringFixed(2),
			b.Roth.StringFixed(2),
			b.HSA.StringFixed(2),
			b.Education.StringFixed(2),
			b.Other.StringFixed(2),
			y.NetWorth.StringFixed(2),
			boolToString(y.IsShortfall),
			y.UnmetNeed.StringFixed(2),
			strings.Join(y.WithdrawalSources, "; "),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
