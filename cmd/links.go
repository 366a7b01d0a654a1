/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/links"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// rewriteLinksCmd represents the rewrite-links command
var rewriteLinksCmd = &cobra.Command{
	Use:   "rewrite-links",
	Short: "Validate internal links and retarget redirected ones",
	Long: `Rewrite-links validates every internal link against the manifest and
retargets links that point at archived duplicates to their canonical
replacements. Genuinely broken links are reported, never guessed at.
Without --apply the command previews the rewrites and reports findings.`,
	RunE: runRewriteLinks,
}

func init() {
	rewriteLinksCmd.Flags().Bool("apply", false, "Write the retargeted links back to disk")
	rewriteLinksCmd.Flags().Bool("check-only", false, "Only validate; skip the rewrite preview")

	if err := ops.RegisterCommand("rewrite-links", ops.GroupPipeline, rewriteLinksCmd, "Validate internal links and retarget redirected ones"); err != nil {
		logger.Error("Failed to register rewrite-links command", logger.Err(err))
	}
}

func runRewriteLinks(cmd *cobra.Command, _ []string) error {
	root, _, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	apply, _ := cmd.Flags().GetBool("apply")
	checkOnly, _ := cmd.Flags().GetBool("check-only")

	snap, err := manifest.Load(manifestPath(root))
	if err != nil {
		return fmt.Errorf("rewrite-links needs a manifest; run scan first: %w", err)
	}
	plan, err := loadPlanIfPresent(root)
	if err != nil {
		return err
	}
	var redirects map[string]string
	if plan != nil {
		redirects = plan.RedirectMap()
	}

	validator := links.NewValidator(root, snap, redirects)
	report, err := validator.ValidateAll()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d internal links (%d external skipped)\n", report.Checked, report.Unchecked)
	for _, f := range report.Findings {
		fmt.Fprintf(out, "  BROKEN %s\n", f)
	}

	if checkOnly {
		if len(report.Findings) > 0 {
			return fmt.Errorf("%d broken internal links", len(report.Findings))
		}
		return nil
	}

	changes, err := validator.Rewrite(apply)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(out, "No links need retargeting.")
		return nil
	}
	verb := "Would retarget"
	if apply {
		verb = "Retargeted"
	}
	fmt.Fprintf(out, "%s %d links:\n", verb, len(changes))
	for _, c := range changes {
		fmt.Fprintf(out, "  %s:%d: %s -> %s\n", c.Source, c.Line, c.Old, c.New)
	}
	if !apply {
		fmt.Fprintln(out, "Re-run with --apply to write the changes.")
	}
	return nil
}
