/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/docguard/internal/ops"
	"github.com/fulmenhq/docguard/pkg/buildinfo"
	"github.com/fulmenhq/docguard/pkg/exitcode"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docguard",
		Short: "Documentation governance for repository doc trees",
		Long: `Docguard inventories a repository's documentation tree, collapses
duplicates behind redirects, validates and rewrites internal links, and
regenerates navigation artifacts, with a CI gate that keeps all of it honest.

Examples:
   docguard scan               # Inventory documents into the manifest
   docguard dedupe             # Propose duplicate groups (use --apply to archive)
   docguard rewrite-links      # Retarget links at canonical docs (use --apply)
   docguard generate           # Refresh site map, redirect table, indexes
   docguard lint               # Run the CI gate against the tree`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().StringP("root", "r", ".", "Document tree root")
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("dry-run", false, "Log intended actions without changing anything")

	// Wire Cobra's built-in --version using docguard's binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("docguard {{.Version}}\n")

	// Grouped help by command group (Pipeline → Gate → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Pipeline Commands (run in order):")
		for _, c := range reg.GetCommandsByGroup(ops.GroupPipeline) {
			cmd.Printf("  %-14s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Gate Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupGate) {
			cmd.Printf("  %-14s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-14s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(scanCmd)
	cmd.AddCommand(dedupeCmd)
	cmd.AddCommand(rewriteLinksCmd)
	cmd.AddCommand(generateCmd)
	cmd.AddCommand(lintCmd)
	cmd.AddCommand(scaffoldCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "docguard",
		DryRun:    dryRun,
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
}
