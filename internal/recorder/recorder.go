package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/google/uuid"
)

// RunRecord is one recorded plan analysis.
type RunRecord struct {
	ID              string    `json:"id"`
	RecordedAt      time.Time `json:"recorded_at"`
	Command         string    `json:"command"` // "project", "fi-age", "summary", "report", "compare"
	PlanName        string    `json:"plan_name"`
	PlanFingerprint string    `json:"plan_fingerprint"`
	WhatIf          string    `json:"what_if,omitempty"`
	TargetFIAge     int       `json:"target_fi_age"`
	AchievableFIAge *int      `json:"achievable_fi_age"`
	Confidence      string    `json:"confidence,omitempty"`
	BufferYears     int       `json:"buffer_years"`
	TerminalBalance string    `json:"terminal_balance"` // decimal text, full precision
	HasShortfall    bool      `json:"has_shortfall"`
}

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	PlanFingerprint string
	Limit           int
}

// Recorder persists run history for later comparison.
type Recorder interface {
	RecordRun(run *RunRecord) error
	ListRuns(filter RunFilter) ([]RunRecord, error)
	Close() error
}

// nowFunc stamps new records (override in tests for determinism).
var nowFunc = time.Now

// Fingerprint hashes the canonical JSON form of a plan, so runs of the same
// inputs can be grouped regardless of the file they were loaded from.
func Fingerprint(plan *domain.Plan) (string, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("fingerprint plan: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// NewRunRecord builds a record for a finished analysis
func NewRunRecord(command string, plan *domain.Plan, report *domain.PlanReport, whatIf string) (*RunRecord, error) {
	fp, err := Fingerprint(plan)
	if err != nil {
		return nil, err
	}
	run := &RunRecord{
		ID:              uuid.NewString(),
		RecordedAt:      nowFunc().UTC(),
		Command:         command,
		PlanName:        plan.Name,
		PlanFingerprint: fp,
		WhatIf:          whatIf,
		TargetFIAge:     report.Summary.FIAge,
		Confidence:      string(report.FIResult.Confidence),
		BufferYears:     report.FIResult.BufferYears,
		TerminalBalance: report.Summary.TerminalBalance.String(),
		HasShortfall:    report.Summary.HasShortfall,
	}
	if report.FIResult.Age != nil {
		age := *report.FIResult.Age
		run.AchievableFIAge = &age
	}
	return run, nil
}
