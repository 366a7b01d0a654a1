/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/dedupe"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/config"
)

// resolveTarget returns the absolute document root and the configuration
// loaded from it (.docguard.yaml layered over defaults and env).
func resolveTarget(cmd *cobra.Command) (string, *config.Config, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return "", nil, fmt.Errorf("resolve root %s: %w", rootFlag, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", nil, fmt.Errorf("root %s is not a directory", root)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

func manifestPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(manifest.DefaultPath))
}

func planPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(dedupe.DefaultPlanPath))
}

func ledgerPath(root, configured string) string {
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(root, filepath.FromSlash(configured))
}

// loadPlanIfPresent returns the saved dedup plan, or nil when none has
// been generated yet. Pipeline stages treat a missing plan as "no
// redirects", not as an error.
func loadPlanIfPresent(root string) (*dedupe.Plan, error) {
	path := planPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return dedupe.LoadPlan(path)
}
