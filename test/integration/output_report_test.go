package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fical/fi-calculator/internal/config"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/internal/output"
)

func exampleReport(t *testing.T) *domain.PlanReport {
	t.Helper()
	plan, err := config.NewInputParser().LoadFromFile(examplePlan)
	require.NoError(t, err)
	report, err := newEngine().Analyze(context.Background(), plan, domain.WhatIf{})
	require.NoError(t, err)
	report.Assumptions = output.GenerateAssumptions(plan, domain.WhatIf{})
	return report
}

func TestOutputGeneration(t *testing.T) {
	report := exampleReport(t)

	for _, format := range output.AvailableFormatterNames() {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			files, err := output.GenerateReport(report, format, dir)
			require.NoError(t, err)
			require.Len(t, files, 1)

			data, err := os.ReadFile(files[0])
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestGenerateReport_AllIntoNewDirectory(t *testing.T) {
	report := exampleReport(t)
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	files, err := output.GenerateReport(report, "all", dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, dir, filepath.Dir(f))
	}
}

func TestJSONReportRoundTrip(t *testing.T) {
	report := exampleReport(t)

	data, err := output.JSONFormatter{}.Format(report)
	require.NoError(t, err)

	var decoded domain.PlanReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.PlanName, decoded.PlanName)
	assert.Len(t, decoded.Projection, len(report.Projection))
	assert.True(t, decoded.Summary.FINumber.Equal(report.Summary.FINumber))
	assert.NotEmpty(t, decoded.Assumptions)
}

func TestCSVReportHasRowPerYear(t *testing.T) {
	report := exampleReport(t)

	data, err := output.CSVDetailedExporter{}.Format(report)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, len(report.Projection)+1)
}

func TestComparisonReport(t *testing.T) {
	plan, err := config.NewInputParser().LoadFromFile(examplePlan)
	require.NoError(t, err)
	cmp, err := newEngine().CompareWhatIfs(context.Background(), plan, config.DefaultScenarios())
	require.NoError(t, err)

	dir := t.TempDir()
	for _, format := range []string{"console", "console-lite", "json", "summary-csv"} {
		name, err := output.GenerateComparisonReport(cmp, format, dir)
		require.NoError(t, err, format)
		_, err = os.Stat(name)
		assert.NoError(t, err, format)
	}

	_, err = output.GenerateComparisonReport(cmp, "csv", dir)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}
