package output

import (
	"encoding/json"

	"github.com/fical/fi-calculator/internal/domain"
)

// JSONFormatter serializes the plan report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

func (j JSONFormatter) FormatComparison(cmp *domain.WhatIfComparison) ([]byte, error) {
	return json.MarshalIndent(cmp, "", "  ")
}
