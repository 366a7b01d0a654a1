/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/internal/scanner"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Inventory the document tree into the manifest",
	Long: `Scan walks the document root, parses every matching file's header
block, fingerprints its content, and writes the manifest snapshot that
every downstream command consumes.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Bool("no-ignore", false, "Ignore .gitignore and .docguardignore files")
	scanCmd.Flags().Int("workers", 0, "Override scan worker count (default from config)")
	scanCmd.Flags().Bool("format-json", false, "Print the summary as JSON")

	if err := ops.RegisterCommand("scan", ops.GroupPipeline, scanCmd, "Inventory the document tree into the manifest"); err != nil {
		logger.Error("Failed to register scan command", logger.Err(err))
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	root, cfg, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	noIgnore, _ := cmd.Flags().GetBool("no-ignore")
	workers, _ := cmd.Flags().GetInt("workers")
	jsonOutput, _ := cmd.Flags().GetBool("format-json")
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}

	started := time.Now()
	records, err := scanner.Scan(cmd.Context(), root, scanner.Options{
		Include:  cfg.Scan.Include,
		Exclude:  cfg.Scan.Exclude,
		Workers:  workers,
		NoIgnore: noIgnore,
	})
	if err != nil {
		return err
	}

	snap, err := manifest.Build(root, records)
	if err != nil {
		return err
	}
	if err := snap.Save(manifestPath(root)); err != nil {
		return err
	}
	logger.Info("manifest written",
		logger.String("path", manifest.DefaultPath),
		logger.Int("documents", snap.Counts.Total),
		logger.Duration("elapsed", time.Since(started)))

	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(snap.Counts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "Scanned %d documents under %s\n", snap.Counts.Total, root)
	fmt.Fprintf(out, "  missing headers:    %d\n", snap.Counts.MissingHeaders)
	fmt.Fprintf(out, "  malformed headers:  %d\n", snap.Counts.MalformedHeaders)
	fmt.Fprintf(out, "  orphans:            %d\n", snap.Counts.Orphans)
	fmt.Fprintf(out, "  redirects:          %d\n", snap.Counts.Redirects)
	fmt.Fprintf(out, "  exact dup groups:   %d\n", snap.Counts.ExactDuplicateGroups)
	return nil
}
