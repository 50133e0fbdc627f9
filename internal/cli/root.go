// Package cli implements the fical command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/config"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/internal/recorder"
)

// NewRootCmd builds the full command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fical",
		Short: "Financial independence projection and FI age search",
		Long: `fical projects a household plan year by year from the current age to
life expectancy, finds the earliest age at which work can stop without the
money running out, and compares what-if scenarios against the plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Log engine decisions and per-year detail to stderr")
	pf.String("record", "", "SQLite database to record runs in")
	pf.Int("base-year", 0, "Calendar year of the first projected year (default: current year)")

	root.AddCommand(
		newProjectCmd(),
		newFIAgeCmd(),
		newSummaryCmd(),
		newReportCmd(),
		newCompareCmd(),
		newValidateCmd(),
		newMigrateCmd(),
		newInitCmd(),
		newServeCmd(),
		newHistoryCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session is the per-invocation wiring shared by every command
type session struct {
	engine   *calculation.CalculationEngine
	recorder recorder.Recorder
	logger   *stdLogger
}

func newSession(cmd *cobra.Command) *session {
	verbose, _ := cmd.Flags().GetBool("verbose")
	dbPath, _ := cmd.Flags().GetString("record")
	baseYear, _ := cmd.Flags().GetInt("base-year")

	logger := newLogger(cmd.ErrOrStderr(), verbose)
	engine := calculation.NewCalculationEngine()
	engine.Debug = verbose
	engine.BaseYear = baseYear
	engine.SetLogger(logger)

	s := &session{engine: engine, logger: logger, recorder: recorder.NewNoopRecorder()}
	if dbPath != "" {
		rec, err := recorder.NewSQLiteRecorder(dbPath)
		if err != nil {
			logger.Warnf("init sqlite recorder failed, runs will not be recorded: %v", err)
		} else {
			s.recorder = rec
		}
	}
	return s
}

func (s *session) Close() error {
	return s.recorder.Close()
}

// loadPlan reads, migrates and validates a plan file
func (s *session) loadPlan(path string) (*domain.Plan, error) {
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	for _, m := range parser.Migrated {
		s.logger.Warnf("%s: migrated %s; run 'fical migrate' to update the file", path, m)
	}
	return plan, nil
}

// record stores a finished analysis. Failures are logged, never returned.
func (s *session) record(command string, plan *domain.Plan, report *domain.PlanReport, whatIf string) {
	run, err := recorder.NewRunRecord(command, plan, report, whatIf)
	if err == nil {
		err = s.recorder.RecordRun(run)
	}
	if err != nil {
		s.logger.Warnf("record %s run: %v", command, err)
	}
}
