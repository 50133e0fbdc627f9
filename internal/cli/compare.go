package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fical/fi-calculator/internal/config"
	"github.com/fical/fi-calculator/internal/output"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare PLAN",
		Short: "Compare what-if scenarios against the unmodified plan",
		Long: `Analyze the plan as-is and under each scenario, then report how each one
moves the achievable FI age and the terminal balance.

Scenarios come from a YAML, TOML or JSON file:

  scenarios:
    - name: lean
      what_if:
        spending_multiplier_delta: -0.15
    - name: delay-ss
      what_if:
        ss_claiming_age: 70

Without --scenarios a built-in set (spending +/-10%, 4% returns, SS at 70) is used.`,
		Args: cobra.ExactArgs(1),
		RunE: runCompare,
	}
	cmd.Flags().StringP("scenarios", "s", "", "Scenario file")
	cmd.Flags().StringP("format", "f", "console-lite", "Output format: console, console-lite, summary-csv, json")
	cmd.Flags().StringP("output-dir", "o", "", "Write a timestamped file here instead of printing")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	formatter := output.GetComparisonFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("%w: %s does not render comparisons", output.ErrUnsupportedFormat, format)
	}

	scenarios := config.DefaultScenarios()
	if path, _ := cmd.Flags().GetString("scenarios"); path != "" {
		loaded, err := config.LoadScenarios(path)
		if err != nil {
			return fmt.Errorf("failed to load scenarios: %w", err)
		}
		scenarios = loaded
	}

	s := newSession(cmd)
	defer s.Close()

	plan, err := s.loadPlan(args[0])
	if err != nil {
		return err
	}
	cmp, err := s.engine.CompareWhatIfs(cmd.Context(), plan, scenarios)
	if err != nil {
		return err
	}

	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		file, err := output.GenerateComparisonReport(cmp, format, dir)
		if err != nil {
			return fmt.Errorf("failed to write comparison: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Comparison written: %s\n", file)
		return nil
	}

	data, err := formatter.FormatComparison(cmp)
	if err != nil {
		return fmt.Errorf("failed to format comparison: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
