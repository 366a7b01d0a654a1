/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/pkg/buildinfo"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show docguard version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show detailed build information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")

	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show docguard version information"); err != nil {
		logger.Error("Failed to register version command", logger.Err(err))
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	version := buildinfo.BinaryVersion
	moduleVersion := buildinfo.ModuleVersion()

	if jsonOutput {
		info := map[string]interface{}{
			"version":   version,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended && moduleVersion != "" {
			info["moduleVersion"] = moduleVersion
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if extended {
		fmt.Fprintf(out, "docguard %s\n", version)
		if moduleVersion != "" {
			fmt.Fprintf(out, "Module: %s\n", moduleVersion)
		}
		fmt.Fprintf(out, "Go: %s\n", runtime.Version())
		fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	}

	fmt.Fprintf(out, "docguard %s\n", version)
	return nil
}
