/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/internal/scaffold"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// scaffoldCmd represents the scaffold command
var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <unit>",
	Short: "Create missing standard docs for a unit",
	Long: `Scaffold fills in the standard documents (README, CHANGELOG, OWNERS)
that a unit directory is missing. Existing files are never touched, and
every file created is recorded in the append-only ledger. Without
--apply the command previews what would be created.`,
	Args: cobra.ExactArgs(1),
	RunE: runScaffold,
}

func init() {
	scaffoldCmd.Flags().Bool("apply", false, "Create the missing files and record them in the ledger")
	scaffoldCmd.Flags().Bool("history", false, "Show the ledger entries for past runs")

	if err := ops.RegisterCommand("scaffold", ops.GroupSupport, scaffoldCmd, "Create missing standard docs for a unit"); err != nil {
		logger.Error("Failed to register scaffold command", logger.Err(err))
	}
}

func runScaffold(cmd *cobra.Command, args []string) error {
	root, cfg, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	unit := args[0]
	apply, _ := cmd.Flags().GetBool("apply")
	history, _ := cmd.Flags().GetBool("history")
	out := cmd.OutOrStdout()

	scaffolder, err := scaffold.New(root, cfg.Scaffold)
	if err != nil {
		return err
	}

	if history {
		entries, err := scaffold.ReadLedger(ledgerPath(root, cfg.Scaffold.LedgerPath))
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.UnitID != unit {
				continue
			}
			fmt.Fprintf(out, "%s %s: %v\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.UnitID, e.FilesCreated)
		}
		return nil
	}

	if !apply {
		missing, err := scaffolder.Preview(unit)
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			fmt.Fprintf(out, "Unit %s is fully scaffolded.\n", unit)
			return nil
		}
		fmt.Fprintf(out, "Would create %d files in %s:\n", len(missing), unit)
		for _, name := range missing {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, "Re-run with --apply to create them.")
		return nil
	}

	created, err := scaffolder.Apply(unit)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintf(out, "Unit %s is fully scaffolded; nothing created.\n", unit)
		return nil
	}
	fmt.Fprintf(out, "Created %d files in %s:\n", len(created), unit)
	for _, name := range created {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
