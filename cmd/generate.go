/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/internal/sitegen"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate site map, redirect table, and index regions",
	Long: `Generate renders the navigation artifacts from the current manifest:
the markdown and XML site maps, the redirect table, and the delimited
index region inside each designated index document. Hand-authored
content outside the delimited regions is preserved. Running generate
twice without tree changes is byte-for-byte idempotent.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("check", false, "Report artifacts that would change, write nothing")

	if err := ops.RegisterCommand("generate", ops.GroupPipeline, generateCmd, "Regenerate site map, redirect table, and index regions"); err != nil {
		logger.Error("Failed to register generate command", logger.Err(err))
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	check, _ := cmd.Flags().GetBool("check")

	snap, err := manifest.Load(manifestPath(root))
	if err != nil {
		return fmt.Errorf("generate needs a manifest; run scan first: %w", err)
	}
	plan, err := loadPlanIfPresent(root)
	if err != nil {
		return err
	}

	gen := sitegen.New(root, snap, plan, cfg.Generate)
	out := cmd.OutOrStdout()

	if check {
		artifacts, err := gen.Outputs()
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			fmt.Fprintf(out, "  would write %s (%d bytes)\n", a.Path, len(a.Content))
		}
		return nil
	}

	artifacts, err := gen.Apply()
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		fmt.Fprintf(out, "  wrote %s (%d bytes)\n", a.Path, len(a.Content))
	}
	return nil
}
