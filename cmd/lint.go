/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/lint"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/pkg/exitcode"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Run the CI governance gate",
	Long: `Lint runs the governance checks against the tree and its manifest:
header completeness, manifest/filesystem parity, artifact freshness, and
a bounded link sample. Hard failures exit non-zero; soft findings are
reported but never fail the build. The run is bounded by a wall-clock
budget so CI latency stays predictable.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("fail-on", "", "Minimum severity that fails the gate (critical|high|medium|low|info)")
	lintCmd.Flags().Duration("budget", 0, "Override the wall-clock budget")
	lintCmd.Flags().Bool("format-json", false, "Print the full report as JSON")

	if err := ops.RegisterCommand("lint", ops.GroupGate, lintCmd, "Run the CI governance gate"); err != nil {
		logger.Error("Failed to register lint command", logger.Err(err))
	}
}

func runLint(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	failOn, _ := cmd.Flags().GetString("fail-on")
	if failOn != "" {
		cfg.Lint.FailOn = failOn
	}
	budget, _ := cmd.Flags().GetDuration("budget")
	if budget <= 0 {
		budget = cfg.Lint.Budget
	}
	jsonOutput, _ := cmd.Flags().GetBool("format-json")

	snap, err := manifest.Load(manifestPath(root))
	if err != nil {
		return fmt.Errorf("lint needs a manifest; run scan first: %w", err)
	}
	plan, err := loadPlanIfPresent(root)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), budget)
	defer cancel()

	engine := lint.NewEngine(cfg.Lint)
	report := engine.Run(ctx, &lint.Target{Root: root, Snap: snap, Plan: plan, Cfg: *cfg})

	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		printLintReport(out, report)
	}

	if !report.Summary.Pass {
		// Distinct exit code so CI can tell a failed gate from a crash.
		os.Exit(exitcode.LintFailure)
	}
	return nil
}

func printLintReport(out io.Writer, report *lint.Report) {
	for _, result := range report.Results {
		status := result.Status
		if status == "success" && len(result.Issues) == 0 {
			status = "ok"
		}
		fmt.Fprintf(out, "%-20s %s\n", result.Check, status)
		for _, issue := range result.Issues {
			loc := issue.Path
			if issue.Line > 0 {
				loc = fmt.Sprintf("%s:%d", issue.Path, issue.Line)
			}
			fmt.Fprintf(out, "  [%s] %s %s\n", issue.Severity, loc, issue.Message)
		}
		if result.Error != "" {
			fmt.Fprintf(out, "  error: %s\n", result.Error)
		}
	}
	verdict := "PASS"
	if !report.Summary.Pass {
		verdict = "FAIL"
	}
	fmt.Fprintf(out, "%s: %d hard failures, %d soft findings (%d checks run, %d skipped, fail-on=%s)\n",
		verdict,
		report.Summary.HardFailures, report.Summary.SoftFindings,
		report.Summary.ChecksRun, report.Summary.ChecksSkipped, report.FailOn)
}
