package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/internal/recorder"
)

// cashPlan is a retiree with four years of spending covered 2.5 times over.
const cashPlan = `{
	"version": 3,
	"name": "api",
	"profile": {"current_age": 60, "life_expectancy": 63, "target_fi_age": 60},
	"accounts": [{"id": "cash", "type": "cash", "balance": 100000}],
	"expenses": {"categories": [{"name": "living", "annual_amount": 10000}]},
	"assumptions": {"investment_return": 0, "inflation_rate": 0}
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng := calculation.NewCalculationEngine()
	eng.BaseYear = 2025
	return NewServer(eng)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func withPlan(extra string) string {
	if extra == "" {
		return `{"plan": ` + cashPlan + `}`
	}
	return `{"plan": ` + cashPlan + `, ` + extra + `}`
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(t).Handler(), "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestFIAge(t *testing.T) {
	w := post(t, newTestServer(t).Handler(), "/api/v1/fi-age", withPlan(""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res domain.AchievableFIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.Age)
	assert.Equal(t, 60, *res.Age)
	assert.True(t, res.FIAtCurrentAge)
	assert.Equal(t, domain.ConfidenceModerate, res.Confidence)
	assert.Equal(t, 70, res.DepletionAge)
}

func TestSummary(t *testing.T) {
	w := post(t, newTestServer(t).Handler(), "/api/v1/summary", withPlan(""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sum domain.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.True(t, sum.FINumber.Equal(decimal.NewFromInt(250000)), sum.FINumber.String())
	assert.True(t, sum.TerminalBalance.Equal(decimal.NewFromInt(60000)), sum.TerminalBalance.String())
	assert.False(t, sum.HasShortfall)
}

func TestProjection(t *testing.T) {
	w := post(t, newTestServer(t).Handler(), "/api/v1/projection", withPlan(""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res projectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "api", res.PlanName)
	assert.Equal(t, 2025, res.BaseYear)
	require.Len(t, res.Projection, 4)
	assert.Equal(t, 60, res.Projection[0].Age)
	assert.Equal(t, 2028, res.Projection[3].Year)
	assert.True(t, res.Projection[3].NetWorth.Equal(decimal.NewFromInt(60000)))
}

func TestProjection_WhatIfSpending(t *testing.T) {
	w := post(t, newTestServer(t).Handler(), "/api/v1/summary",
		withPlan(`"what_if": {"spending_multiplier_delta": "0.5"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sum domain.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	// 15,000 a year for four years
	assert.True(t, sum.TerminalBalance.Equal(decimal.NewFromInt(40000)), sum.TerminalBalance.String())
}

func TestReport_Formats(t *testing.T) {
	h := newTestServer(t).Handler()

	w := post(t, h, "/api/v1/report", withPlan(""))
	require.Equal(t, http.StatusOK, w.Code)
	var report domain.PlanReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Assumptions)
	assert.Len(t, report.Projection, 4)

	w = post(t, h, "/api/v1/report?format=lite", withPlan(""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "FI PLAN SUMMARY: api"), w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	w = post(t, h, "/api/v1/report?format=csv", withPlan(""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Len(t, strings.Split(strings.TrimSpace(w.Body.String()), "\n"), 5)

	w = post(t, h, "/api/v1/report?format=pdf", withPlan(""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported output format")
}

func TestErrors(t *testing.T) {
	h := newTestServer(t).Handler()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"plan": `, http.StatusBadRequest},
		{"missing plan", `{}`, http.StatusBadRequest},
		{"unknown field", withPlan(`"scenario": 1`), http.StatusBadRequest},
		{"unsupported claiming age", withPlan(`"what_if": {"ss_claiming_age": 65}`), http.StatusUnprocessableEntity},
		{"spending cut to zero", withPlan(`"what_if": {"spending_multiplier_delta": "-1"}`), http.StatusUnprocessableEntity},
		{"invalid plan", `{"plan": {"version": 3, "profile": {"current_age": 60, "life_expectancy": 50}}}`, http.StatusUnprocessableEntity},
		{"future schema", `{"plan": {"version": 99}}`, http.StatusUnprocessableEntity},
		{"bad rate", `{"plan": {"version": 3, "profile": {"current_age": 40, "life_expectancy": 90},
			"assumptions": {"capital_gains_rate": 2}}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, "/api/v1/fi-age", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())

			var body map[string]map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"]["message"])
		})
	}
}

func TestCompare(t *testing.T) {
	h := newTestServer(t).Handler()

	body := `{"plan": ` + cashPlan + `, "scenarios": [
		{"name": "lean", "what_if": {"spending_multiplier_delta": "-0.5"}},
		{"name": "lavish", "what_if": {"spending_multiplier_delta": "2"}}
	]}`
	w := post(t, h, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp domain.WhatIfComparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Equal(t, "baseline", cmp.Baseline.Name)
	require.Len(t, cmp.Scenarios, 2)
	assert.Equal(t, "lean", cmp.LargestTerminalScenario)
	// 30,000 a year runs out in the fourth year
	assert.True(t, cmp.Scenarios[1].Summary.HasShortfall)

	w = post(t, h, "/api/v1/compare", `{"plan": `+cashPlan+`, "scenarios": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, h, "/api/v1/compare", `{"plan": `+cashPlan+`, "scenarios": [{"name": "a"}, {"name": "a"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate scenario name")
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	srv.EnableMetrics()
	h := srv.Handler()

	post(t, h, "/api/v1/fi-age", withPlan(""))

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fical_engine_evaluations_total{endpoint="fi-age",outcome="viable"}`)
	assert.Contains(t, w.Body.String(), `fical_api_request_duration_seconds_bucket{route="/api/v1/fi-age",status="200"`)

	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(t).Handler(), "/metrics").Code)
}

func TestRecorderRuns(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	srv := newTestServer(t)
	srv.SetRecorder(rec)
	h := srv.Handler()

	require.Equal(t, http.StatusOK, post(t, h, "/api/v1/fi-age", withPlan("")).Code)
	require.Equal(t, http.StatusOK, post(t, h, "/api/v1/summary", withPlan(`"what_if": {"return_override": "0.05"}`)).Code)

	w := get(t, h, "/api/v1/runs?limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Runs []recorder.RunRecord `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Runs, 2)
	assert.Equal(t, "summary", body.Runs[0].Command)
	assert.Equal(t, "return 5.0%", body.Runs[0].WhatIf)
	assert.Equal(t, "fi-age", body.Runs[1].Command)
	assert.Equal(t, body.Runs[0].PlanFingerprint, body.Runs[1].PlanFingerprint)
	require.NotNil(t, body.Runs[1].AchievableFIAge)
	assert.Equal(t, 60, *body.Runs[1].AchievableFIAge)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/runs?limit=x").Code)
}

func TestListRuns_NoopRecorder(t *testing.T) {
	w := get(t, newTestServer(t).Handler(), "/api/v1/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs": []}`, w.Body.String())
}
