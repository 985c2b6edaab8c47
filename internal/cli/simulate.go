package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/assessment"
	"github.com/testbridge/toolgate/internal/explain"
	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
	"github.com/testbridge/toolgate/internal/resolve"
)

var (
	simulateAssessment string
	simulateProfile    string
	simulateItem       string
	simulateFormat     string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateAssessment, "assessment", "", "Path to assessment YAML/JSON (required)")
	simulateCmd.Flags().StringVar(&simulateProfile, "profile", "", "Path to substitute profile YAML/JSON; omit for an empty profile")
	simulateCmd.Flags().StringVar(&simulateItem, "item", "", "Item reference selecting per-item rules")
	simulateCmd.Flags().StringVarP(&simulateFormat, "format", "f", "text", "Output format (text|json)")
	simulateCmd.MarkFlagRequired("assessment")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Resolve with a substituted student profile (what-if)",
	Long: "Runs the same precedence chain with a caller-supplied profile swapped\n" +
		"in wholesale for the stored one. District, session and item layers\n" +
		"still apply unchanged; nothing is persisted.",
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := assessment.Load(simulateAssessment)
	if err != nil {
		return err
	}

	var override *model.PersonalNeedsProfile
	if simulateProfile != "" {
		override, err = assessment.LoadProfile(simulateProfile)
		if err != nil {
			return err
		}
	}

	engine := resolve.New(registry.NewDefault())
	result, err := engine.ResolveWithOverride(a, override, simulateItem)
	if err != nil {
		return err
	}

	switch simulateFormat {
	case "json":
		out, err := explain.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(explain.FormatText(result))
	}

	return nil
}
