// Package cli provides the command-line interface for batchlens.
package cli

import (
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "batchlens",
		Short: "batchlens - import batch analyzer",
		Long: `batchlens classifies a batch of uploaded data files against known
record models (employees, salaries, departments, ...) and computes the
order in which the files must be processed so that referenced entities
exist before the records that reference them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewModelsCommand())

	return rootCmd
}
