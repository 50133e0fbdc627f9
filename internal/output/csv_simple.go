package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/fical/fi-calculator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per plan or scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

var summaryHeader = []string{
	"Scenario", "TargetFIAge", "FINumber", "CurrentNetWorth", "Gap", "RunwayAge",
	"TerminalBalance", "PeakNetWorth", "TotalTaxes", "TotalPenalties", "ShortfallAge", "BufferYears",
	"AchievableFIAge", "Confidence", "DepletionAge",
}

func summaryRow(name string, s domain.Summary, r domain.AchievableFIResult) []string {
	return []string{
		name,
		intToString(s.FIAge),
		s.FINumber.StringFixed(2),
		s.CurrentNetWorth.StringFixed(2),
		s.Gap.StringFixed(2),
		intToString(s.RunwayAge),
		s.TerminalBalance.StringFixed(2),
		s.PeakNetWorth.StringFixed(2),
		s.TotalTaxes.StringFixed(2),
		s.TotalPenalties.StringFixed(2),
		optionalAge(s.ShortfallAge),
		intToString(s.BufferYears),
		optionalAge(r.Age),
		confidenceLabel(r),
		intToString(r.DepletionAge),
	}
}

func (c CSVSummarizer) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	if err := w.Write(summaryRow(planName(report.PlanName), report.Summary, report.FIResult)); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// FormatComparison writes the baseline first, then scenarios sorted by name.
func (c CSVSummarizer) FormatComparison(cmp *domain.WhatIfComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	if err := w.Write(summaryRow(cmp.Baseline.Name, cmp.Baseline.Summary, cmp.Baseline.FIResult)); err != nil {
		return nil, err
	}
	scenarios := append([]domain.ScenarioOutcome(nil), cmp.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		if err := w.Write(summaryRow(sc.Name, sc.Summary, sc.FIResult)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
