package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fical/fi-calculator/internal/config"
)

// ─── validate ───────────────────────────────────────────────────────────────

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PLAN",
		Short: "Check a plan file without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, m := range parser.Migrated {
		fmt.Fprintf(out, "Migrated %s\n", m)
	}
	fmt.Fprintf(out, "Plan %q is valid (schema v%d, %d accounts)\n", displayName(plan.Name), plan.Version, len(plan.Accounts))
	return nil
}

// ─── migrate ────────────────────────────────────────────────────────────────

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate PLAN",
		Short: "Upgrade a plan file to the current schema version",
		Long: `Load a plan of any supported schema version and write it back in the
current canonical form. Without --output the result is printed as YAML.
The output encoding follows the output file's extension.`,
		Args: cobra.ExactArgs(1),
		RunE: runMigrate,
	}
	cmd.Flags().StringP("output", "o", "", "File to write the migrated plan to")
	cmd.Flags().Bool("in-place", false, "Overwrite the input file")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("output")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	if inPlace {
		if target != "" {
			return errors.New("--output and --in-place are mutually exclusive")
		}
		target = args[0]
	}

	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if target == "" {
		data, err := config.EncodePlan(plan, config.FormatYAML)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	if err := parser.SavePlan(plan, target); err != nil {
		return err
	}
	if len(parser.Migrated) == 0 {
		fmt.Fprintf(out, "%s is already at schema v%d; wrote %s\n", args[0], plan.Version, target)
		return nil
	}
	for _, m := range parser.Migrated {
		fmt.Fprintf(out, "Applied %s\n", m)
	}
	fmt.Fprintf(out, "Wrote %s\n", target)
	return nil
}

// ─── init ───────────────────────────────────────────────────────────────────

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init [FILE]",
		Aliases: []string{"example"},
		Short:   "Write an example household plan to start from",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runInit,
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "plan.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}

	parser := config.NewInputParser()
	if err := parser.SavePlan(parser.CreateExamplePlan(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Run with: fical fi-age %s\n", path)
	return nil
}
