package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fical/fi-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned for unknown output format names
var ErrUnsupportedFormat = errors.New("unsupported output format")

// extensionFor picks a file extension for a canonical formatter name
func extensionFor(name string) string {
	switch {
	case strings.Contains(name, "csv"):
		return "csv"
	case name == "json":
		return "json"
	default:
		return "txt"
	}
}

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// GenerateReport renders the report with the named formatter into dir.
// "all" writes the verbose console report and the year table.
func GenerateReport(report *domain.PlanReport, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			name, err := WriteFormatted(f, report, dir, extensionFor(f.Name()))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	name, err := WriteFormatted(f, report, dir, extensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// GenerateComparisonReport renders a what-if comparison into dir.
func GenerateComparisonReport(cmp *domain.WhatIfComparison, format, dir string) (string, error) {
	f := GetComparisonFormatterByName(format)
	if f == nil {
		return "", unsupported(format)
	}
	return WriteComparison(f, cmp, dir, extensionFor(f.Name()))
}
