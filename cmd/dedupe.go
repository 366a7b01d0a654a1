/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/dedupe"
	"github.com/fulmenhq/docguard/internal/links"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// dedupeCmd represents the dedupe command
var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Group duplicate documents and plan their redirects",
	Long: `Dedupe groups exact and near-duplicate documents from the manifest,
selects a canonical survivor per group, and writes a reviewable plan.
Nothing on disk changes unless --apply is given, which replaces every
archived duplicate with a redirect stub.`,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().Bool("apply", false, "Write redirect stubs for archived duplicates")
	dedupeCmd.Flags().Float64("near-threshold", 0, "Override the title similarity threshold")

	if err := ops.RegisterCommand("dedupe", ops.GroupPipeline, dedupeCmd, "Group duplicate documents and plan their redirects"); err != nil {
		logger.Error("Failed to register dedupe command", logger.Err(err))
	}
}

func runDedupe(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	apply, _ := cmd.Flags().GetBool("apply")
	threshold, _ := cmd.Flags().GetFloat64("near-threshold")
	if threshold > 0 {
		cfg.Dedupe.NearThreshold = threshold
	}

	snap, err := manifest.Load(manifestPath(root))
	if err != nil {
		return fmt.Errorf("dedupe needs a manifest; run scan first: %w", err)
	}

	referenced := links.ReferencedBy(root, snap, cfg.Dedupe.IndexDocs)
	plan, err := dedupe.BuildPlan(snap, cfg.Dedupe, referenced)
	if err != nil {
		return err
	}
	if err := plan.Save(planPath(root)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d duplicate groups (%d documents to archive)\n", len(plan.Groups), len(plan.Archive))
	for _, g := range plan.Groups {
		fmt.Fprintf(out, "  [%s] %s\n", g.Kind, g.Canonical)
		for _, dup := range g.Duplicates {
			fmt.Fprintf(out, "      <- %s\n", dup)
		}
	}
	fmt.Fprintf(out, "Plan written to %s\n", dedupe.DefaultPlanPath)

	if !apply {
		if len(plan.Archive) > 0 {
			fmt.Fprintln(out, "Review the plan, then re-run with --apply to archive duplicates.")
		}
		return nil
	}

	written, err := plan.Apply(root)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Archived %d duplicates behind redirect stubs.\n", len(written))
	if len(written) > 0 {
		fmt.Fprintln(out, "Re-run scan to refresh the manifest before linting.")
	}
	return nil
}
