package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/internal/output"
)

// addWhatIfFlags registers the scenario overrides shared by analysis commands
func addWhatIfFlags(cmd *cobra.Command) {
	cmd.Flags().String("spending-delta", "", "Spending multiplier delta, e.g. -0.10 for 10% less")
	cmd.Flags().String("return", "", "Override the investment return, e.g. 0.05")
	cmd.Flags().Int("ss-age", 0, "Override the Social Security claiming age (62, 67 or 70)")
	cmd.Flags().Int("spouse-ss-age", 0, "Override the spouse's Social Security claiming age (62, 67 or 70)")
}

func whatIfFromFlags(cmd *cobra.Command) (domain.WhatIf, error) {
	var w domain.WhatIf
	if v, _ := cmd.Flags().GetString("spending-delta"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return w, fmt.Errorf("invalid --spending-delta %q: %w", v, err)
		}
		if d.LessThanOrEqual(decimal.NewFromInt(-1)) {
			return w, fmt.Errorf("--spending-delta must be above -1")
		}
		w.SpendingMultiplierDelta = d
	}
	if v, _ := cmd.Flags().GetString("return"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return w, fmt.Errorf("invalid --return %q: %w", v, err)
		}
		w.ReturnOverride = &d
	}
	if cmd.Flags().Changed("ss-age") {
		age, _ := cmd.Flags().GetInt("ss-age")
		w.SSClaimingAge = &age
	}
	if cmd.Flags().Changed("spouse-ss-age") {
		age, _ := cmd.Flags().GetInt("spouse-ss-age")
		w.SpouseSSClaimingAge = &age
	}
	return w, nil
}

// analyzeFile loads the plan, runs the full analysis with the what-if flags
// and records the run under command.
func analyzeFile(cmd *cobra.Command, command, path string) (*domain.PlanReport, error) {
	s := newSession(cmd)
	defer s.Close()

	whatIf, err := whatIfFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	plan, err := s.loadPlan(path)
	if err != nil {
		return nil, err
	}
	report, err := s.engine.Analyze(cmd.Context(), plan, whatIf)
	if err != nil {
		return nil, err
	}
	report.Assumptions = output.GenerateAssumptions(plan, whatIf)

	described := ""
	if !whatIf.IsZero() {
		described = output.DescribeWhatIf(whatIf)
	}
	s.record(command, plan, report, described)
	return report, nil
}

func writeJSONTo(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ─── project ────────────────────────────────────────────────────────────────

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project PLAN",
		Short: "Print the year-by-year projection at the target FI age",
		Args:  cobra.ExactArgs(1),
		RunE:  runProject,
	}
	cmd.Flags().StringP("format", "f", "console", "Output format: console, console-lite, csv, summary-csv, json")
	addWhatIfFlags(cmd)
	return cmd
}

func runProject(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("%w: %s (available: %v)", output.ErrUnsupportedFormat, format, output.AvailableFormatterNames())
	}

	report, err := analyzeFile(cmd, "project", args[0])
	if err != nil {
		return err
	}
	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// ─── fi-age ─────────────────────────────────────────────────────────────────

func newFIAgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fi-age PLAN",
		Short: "Find the achievable FI age",
		Long: `Run the projection at every FI age from the current age to one year before
life expectancy. Among the ages that never run short, report the one whose
terminal balance is closest to the plan's terminal_balance_target (the
younger age on ties), with its confidence. When no age works, report how
much spending or saving would fix the plan.`,
		Args: cobra.ExactArgs(1),
		RunE: runFIAge,
	}
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	addWhatIfFlags(cmd)
	return cmd
}

func runFIAge(cmd *cobra.Command, args []string) error {
	report, err := analyzeFile(cmd, "fi-age", args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSONTo(out, report.FIResult)
	}
	fmt.Fprintf(out, "Plan: %s\n", displayName(report.PlanName))
	_, err = out.Write(output.FormatFIResult(report.FIResult))
	return err
}

// ─── summary ────────────────────────────────────────────────────────────────

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary PLAN",
		Short: "Print the FI number, gap, runway and buffer at the target FI age",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	addWhatIfFlags(cmd)
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	report, err := analyzeFile(cmd, "summary", args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSONTo(out, report.Summary)
	}
	fmt.Fprintf(out, "Plan: %s\n", displayName(report.PlanName))
	_, err = out.Write(output.FormatSummary(report.Summary))
	return err
}

// ─── report ─────────────────────────────────────────────────────────────────

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report PLAN",
		Short: "Write a timestamped report file",
		Long: `Write the full analysis to a timestamped file in the output directory.
Format "all" writes the console report and the detailed CSV year table.`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}
	cmd.Flags().StringP("format", "f", "all", "Output format: all, console, console-lite, csv, summary-csv, json")
	cmd.Flags().StringP("output-dir", "o", ".", "Directory to write reports into")
	addWhatIfFlags(cmd)
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("output-dir")
	if output.NormalizeFormatName(format) != "all" && output.GetFormatterByName(format) == nil {
		return fmt.Errorf("%w: %s (available: all, %v)", output.ErrUnsupportedFormat, format, output.AvailableFormatterNames())
	}

	report, err := analyzeFile(cmd, "report", args[0])
	if err != nil {
		return err
	}
	files, err := output.GenerateReport(report, format, dir)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", f)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "unnamed plan"
	}
	return name
}
