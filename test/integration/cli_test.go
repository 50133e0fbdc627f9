package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fical/fi-calculator/internal/api"
	"github.com/fical/fi-calculator/internal/cli"
	"github.com/fical/fi-calculator/internal/config"
	"github.com/fical/fi-calculator/internal/domain"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var stdout bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--base-year", "2025"}, args...))
	require.NoError(t, root.Execute(), strings.Join(args, " "))
	return stdout.String()
}

func TestCLI_FIAgeMatchesEngine(t *testing.T) {
	report := exampleReport(t)

	out := runCLI(t, "fi-age", "--json", examplePlan)
	var got domain.AchievableFIResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, report.FIResult.Age, got.Age)
	assert.Equal(t, report.FIResult.Confidence, got.Confidence)
	assert.Equal(t, report.FIResult.BufferYears, got.BufferYears)
}

func TestCLI_InitThenAnalyze(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")

	runCLI(t, "init", path)
	out := runCLI(t, "validate", path)
	assert.Contains(t, out, `Plan "Example Household" is valid`)

	out = runCLI(t, "summary", path)
	assert.Contains(t, out, "Plan: Example Household")
	assert.Contains(t, out, "FI Number:")

	out = runCLI(t, "report", "--format", "all", "--output-dir", filepath.Join(dir, "out"), path)
	assert.Equal(t, 2, strings.Count(out, "Report written: "))
}

func TestCLI_MigrateLegacyThenRecordHistory(t *testing.T) {
	dir := t.TempDir()
	migrated := filepath.Join(dir, "legacy.yaml")
	db := filepath.Join(dir, "runs.db")

	out := runCLI(t, "migrate", "--output", migrated, legacyPlan)
	assert.Contains(t, out, "Applied v1->v2")
	assert.Contains(t, out, "Applied v2->v3")

	runCLI(t, "--record", db, "fi-age", migrated)
	runCLI(t, "--record", db, "fi-age", legacyPlan)

	// Both files describe the same plan once migrated.
	out = runCLI(t, "--record", db, "history", "--plan", migrated)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, out, "Legacy Couple")
}

func TestAPI_ReportMatchesCLI(t *testing.T) {
	raw, err := os.ReadFile(examplePlan)
	require.NoError(t, err)
	plan, err := config.NewInputParser().Parse(raw, config.FormatYAML)
	require.NoError(t, err)
	planJSON, err := config.EncodePlan(plan, config.FormatJSON)
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewServer(newEngine()).Handler())
	defer srv.Close()

	body := `{"plan": ` + string(planJSON) + `}`
	resp, err := http.Post(srv.URL+"/api/v1/fi-age", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.AchievableFIResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	want := exampleReport(t).FIResult
	assert.Equal(t, want.Age, got.Age)
	assert.True(t, want.TerminalBalance.Equal(got.TerminalBalance))
}
