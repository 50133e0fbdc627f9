package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/internal/output"
)

const cliPlan = `version: 3
name: cli
profile:
  current_age: 60
  life_expectancy: 63
  target_fi_age: 60
accounts:
  - id: cash
    type: cash
    balance: 100000
expenses:
  categories:
    - name: living
      annual_amount: 10000
assumptions:
  investment_return: 0
  inflation_rate: 0
`

const legacyPlan = `name: legacy
profile:
  current_age: 60
  life_expectancy: 63
  target_fi_age: 60
assets:
  - name: Savings
    category: savings
    value: 100000
expenses:
  - name: living
    amount: 10000
assumptions:
  investment_return: 0
  inflation:
    rate: 0.03
    enabled: false
`

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--base-year", "2025"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFIAgeCommand(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)

	out, _, err := run(t, "fi-age", path)
	require.NoError(t, err)
	assert.Equal(t, "Plan: cli\nAchievable FI Age: 60 (now)\nConfidence: moderate (buffer 6 years, depletion age 70)\n", out)
}

func TestFIAgeCommand_HelpDescribesSelection(t *testing.T) {
	out, _, err := run(t, "fi-age", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "closest to the plan's terminal_balance_target")
	assert.NotContains(t, out, "first one whose")
}

func TestFIAgeCommand_JSON(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)

	out, _, err := run(t, "fi-age", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"age": 60`)
	assert.Contains(t, out, `"confidence": "moderate"`)
}

func TestSummaryCommand_WhatIf(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)

	out, _, err := run(t, "summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Terminal Balance: $60,000.00")

	out, _, err = run(t, "summary", "--spending-delta", "-0.5", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Terminal Balance: $80,000.00")
	assert.Contains(t, out, "FI Number: $125,000.00")
}

func TestWhatIfFlags_Invalid(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)

	_, _, err := run(t, "fi-age", "--ss-age", "65", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedClaimingAge)

	_, _, err = run(t, "fi-age", "--return", "lots", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --return")

	_, _, err = run(t, "fi-age", "--spending-delta", "-1", path)
	require.Error(t, err)
}

func TestProjectCommand_Formats(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)

	out, _, err := run(t, "project", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FINANCIAL INDEPENDENCE PLAN: cli")
	assert.Contains(t, out, "PLAN SUMMARY (FI at 60, base year 2025)")

	out, _, err = run(t, "project", "--format", "csv", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5, "header plus one row per year")

	_, _, err = run(t, "project", "--format", "pdf", path)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestReportCommand_WritesFiles(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)
	dir := filepath.Join(t.TempDir(), "reports")

	out, _, err := run(t, "report", "--output-dir", dir, path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Report written: "))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	var exts []string
	for _, e := range entries {
		exts = append(exts, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".txt", ".csv"}, exts)
}

func TestCompareCommand(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)

	out, _, err := run(t, "compare", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "WHAT-IF COMPARISON: cli\n"), out)
	assert.Contains(t, out, "baseline: FIAge=60")
	assert.Contains(t, out, "spend-10pct-less: FIAge=60")

	scenarios := writePlan(t, "scenarios.yaml", `scenarios:
  - name: half
    what_if:
      spending_multiplier_delta: -0.5
`)
	out, _, err = run(t, "compare", "--scenarios", scenarios, "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"largest_terminal_scenario": "half"`)

	_, _, err = run(t, "compare", "--format", "csv", path)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestValidateAndMigrate_LegacyPlan(t *testing.T) {
	path := writePlan(t, "legacy.yaml", legacyPlan)

	out, _, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated v1->v2")
	assert.Contains(t, out, "Migrated v2->v3")
	assert.Contains(t, out, `Plan "legacy" is valid (schema v3, 1 accounts)`)

	out, _, err = run(t, "migrate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version: 3")
	assert.Contains(t, out, "type: cash")
	assert.NotContains(t, out, "assets:")

	target := filepath.Join(t.TempDir(), "plan.json")
	out, _, err = run(t, "migrate", "--output", target, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+target)

	// The migrated file loads without further migrations.
	out, _, err = run(t, "validate", target)
	require.NoError(t, err)
	assert.NotContains(t, out, "Migrated")

	_, _, err = run(t, "migrate", "--in-place", "--output", target, path)
	assert.Error(t, err)
}

func TestAnalyze_LegacyPlanWarns(t *testing.T) {
	path := writePlan(t, "legacy.yaml", legacyPlan)

	out, stderr, err := run(t, "fi-age", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Achievable FI Age: 60 (now)")
	assert.Contains(t, stderr, "[WARN]")
	assert.Contains(t, stderr, "fical migrate")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.yaml")

	out, _, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Example plan written to "+path)

	out, _, err = run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, _, err = run(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "example", "--force", path)
	assert.NoError(t, err)
}

func TestHistoryCommand(t *testing.T) {
	path := writePlan(t, "plan.yaml", cliPlan)
	other := writePlan(t, "other.yaml", strings.Replace(cliPlan, "name: cli", "name: other", 1))
	db := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := run(t, "--record", db, "fi-age", path)
	require.NoError(t, err)
	_, _, err = run(t, "--record", db, "summary", "--spending-delta", "-0.5", path)
	require.NoError(t, err)
	_, _, err = run(t, "--record", db, "fi-age", other)
	require.NoError(t, err)

	out, _, err := run(t, "--record", db, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "WHEN"))
	assert.Contains(t, lines[1], "other")
	assert.Contains(t, lines[2], "spending -50%")
	assert.Contains(t, lines[3], "$60,000.00")

	out, _, err = run(t, "--record", db, "history", "--plan", path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
	assert.NotContains(t, out, "other")

	out, _, err = run(t, "--record", db, "history", "--limit", "1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, _, err = run(t, "history")
	assert.Error(t, err)
}
