package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fical/fi-calculator/internal/config"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/internal/output"
	"github.com/fical/fi-calculator/internal/recorder"
)

// analyzeRequest is the body of every single-plan endpoint. Plan is a plan
// document of any supported schema version, decoded by the config layer.
type analyzeRequest struct {
	Plan   json.RawMessage `json:"plan"`
	WhatIf domain.WhatIf   `json:"what_if"`
}

type compareRequest struct {
	Plan      json.RawMessage      `json:"plan"`
	Scenarios []domain.NamedWhatIf `json:"scenarios"`
}

type projectionResponse struct {
	PlanName   string            `json:"plan_name"`
	BaseYear   int               `json:"base_year"`
	WhatIf     domain.WhatIf     `json:"what_if"`
	Projection domain.Projection `json:"projection"`
}

// requestError marks failures caused by the request body itself.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeBody reads a size-capped JSON body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return badRequest("failed to read request body: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func parsePlan(raw json.RawMessage) (*domain.Plan, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, badRequest("plan is required")
	}
	return config.NewInputParser().Parse(raw, config.FormatJSON)
}

// statusFor maps an error to an HTTP status. Plan problems are 422, body
// problems 400, and cancelled work 503.
func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, domain.ErrMissingProfile),
		errors.Is(err, domain.ErrUnsupportedClaimingAge),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrUnsupportedSchemaVersion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	// Anything else came out of document decoding.
	return http.StatusBadRequest
}

func (s *Server) fail(w http.ResponseWriter, endpoint string, err error) {
	Evaluations.WithLabelValues(endpoint, "error").Inc()
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorf("%s: %v", endpoint, err)
	} else {
		s.logger.Debugf("%s rejected: %v", endpoint, err)
	}
	writeError(w, status, err.Error())
}

// analyze parses the request, runs the full analysis and records the run.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, endpoint string) (*domain.PlanReport, bool) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, endpoint, err)
		return nil, false
	}
	plan, err := parsePlan(req.Plan)
	if err != nil {
		s.fail(w, endpoint, err)
		return nil, false
	}
	report, err := s.engine.Analyze(r.Context(), plan, req.WhatIf)
	if err != nil {
		s.fail(w, endpoint, err)
		return nil, false
	}
	report.Assumptions = output.GenerateAssumptions(plan, req.WhatIf)

	outcome := "viable"
	if report.Summary.HasShortfall {
		outcome = "shortfall"
	}
	Evaluations.WithLabelValues(endpoint, outcome).Inc()
	s.record(endpoint, plan, report, req.WhatIf)
	return report, true
}

// record stores the run; recorder failures never fail the request.
func (s *Server) record(command string, plan *domain.Plan, report *domain.PlanReport, whatIf domain.WhatIf) {
	what := ""
	if !whatIf.IsZero() {
		what = output.DescribeWhatIf(whatIf)
	}
	run, err := recorder.NewRunRecord(command, plan, report, what)
	if err == nil {
		err = s.recorder.RecordRun(run)
	}
	if err != nil {
		s.logger.Warnf("record %s run for %q: %v", command, plan.Name, err)
	}
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r, "project")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{
		PlanName:   report.PlanName,
		BaseYear:   report.BaseYear,
		WhatIf:     report.WhatIf,
		Projection: report.Projection,
	})
}

func (s *Server) handleFIAge(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r, "fi-age")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.FIResult)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r, "summary")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Summary)
}

// handleReport returns the full report as JSON, or rendered by any registered
// formatter when ?format= is given.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	var formatter output.Formatter
	if format != "" {
		formatter = output.GetFormatterByName(format)
		if formatter == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: %s", output.ErrUnsupportedFormat, format))
			return
		}
	}

	report, ok := s.analyze(w, r, "report")
	if !ok {
		return
	}
	if formatter == nil {
		writeJSON(w, http.StatusOK, report)
		return
	}
	data, err := formatter.Format(report)
	if err != nil {
		s.logger.Errorf("format report as %s: %v", formatter.Name(), err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(formatter.Name()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func contentTypeFor(name string) string {
	switch name {
	case "json":
		return "application/json"
	case "csv", "summary-csv":
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	const endpoint = "compare"
	var req compareRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, endpoint, err)
		return
	}
	if err := config.ValidateScenarios(req.Scenarios); err != nil {
		s.fail(w, endpoint, err)
		return
	}

	plan, err := parsePlan(req.Plan)
	if err != nil {
		s.fail(w, endpoint, err)
		return
	}
	cmp, err := s.engine.CompareWhatIfs(r.Context(), plan, req.Scenarios)
	if err != nil {
		s.fail(w, endpoint, err)
		return
	}
	for _, o := range append([]domain.ScenarioOutcome{cmp.Baseline}, cmp.Scenarios...) {
		outcome := "viable"
		if o.Summary.HasShortfall {
			outcome = "shortfall"
		}
		Evaluations.WithLabelValues(endpoint, outcome).Inc()
	}
	writeJSON(w, http.StatusOK, cmp)
}
