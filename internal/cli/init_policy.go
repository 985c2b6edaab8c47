package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/assessment"
)

var initPolicyOut string

func init() {
	rootCmd.AddCommand(initPolicyCmd)
	initPolicyCmd.Flags().StringVarP(&initPolicyOut, "out", "o", "district-policy.yaml", "Output path")
}

var initPolicyCmd = &cobra.Command{
	Use:   "init-policy",
	Short: "Write a commented district policy template",
	RunE:  runInitPolicy,
}

func runInitPolicy(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initPolicyOut); err == nil {
		return fmt.Errorf("refusing to overwrite existing file: %s", initPolicyOut)
	}

	dir := filepath.Dir(initPolicyOut)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if err := os.WriteFile(initPolicyOut, []byte(assessment.DefaultDistrictPolicyYAML()), 0644); err != nil {
		return fmt.Errorf("write policy template: %w", err)
	}

	fmt.Printf("Wrote %s\n", initPolicyOut)
	return nil
}
