package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toolgate",
	Short: "Accessibility tool resolution for assessments",
	Long: "Reconciles a student's accessibility profile, district policy, session\n" +
		"overrides and per-item rules into a single allow/block decision per\n" +
		"feature, with a provenance trail explaining every decision.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
