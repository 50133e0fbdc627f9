package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fical/fi-calculator/internal/output"
	"github.com/fical/fi-calculator/internal/recorder"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded with --record",
		Long: `List recorded runs, newest first. With --plan only runs of plans with
identical inputs to that file are shown.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().String("plan", "", "Only show runs of this plan file")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if db, _ := cmd.Flags().GetString("record"); db == "" {
		return errors.New("history needs a database: fical history --record runs.db")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	planPath, _ := cmd.Flags().GetString("plan")

	s := newSession(cmd)
	defer s.Close()

	filter := recorder.RunFilter{Limit: limit}
	if planPath != "" {
		plan, err := s.loadPlan(planPath)
		if err != nil {
			return err
		}
		fp, err := recorder.Fingerprint(plan)
		if err != nil {
			return err
		}
		filter.PlanFingerprint = fp
	}

	runs, err := s.recorder.ListRuns(filter)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tCOMMAND\tPLAN\tTARGET\tFI AGE\tCONFIDENCE\tTERMINAL\tWHAT-IF")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			humanize.Time(r.RecordedAt), r.Command, displayName(r.PlanName), r.TargetFIAge,
			fiAgeLabel(r.AchievableFIAge), dashIfEmpty(r.Confidence), terminalLabel(r.TerminalBalance),
			dashIfEmpty(r.WhatIf))
	}
	return tw.Flush()
}

func fiAgeLabel(age *int) string {
	if age == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *age)
}

func terminalLabel(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return output.FormatCurrency(d)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
