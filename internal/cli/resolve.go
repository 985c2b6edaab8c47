package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/assessment"
	"github.com/testbridge/toolgate/internal/explain"
	"github.com/testbridge/toolgate/internal/registry"
	"github.com/testbridge/toolgate/internal/resolve"
)

var (
	resolveAssessment string
	resolvePolicy     string
	resolveItem       string
	resolveFormat     string
	resolveIDsOnly    bool
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveAssessment, "assessment", "", "Path to assessment YAML/JSON (required)")
	resolveCmd.Flags().StringVar(&resolvePolicy, "policy", "", "Path to district policy YAML (overrides the assessment's district layer)")
	resolveCmd.Flags().StringVar(&resolveItem, "item", "", "Item reference selecting per-item rules")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "text", "Output format (text|json)")
	resolveCmd.Flags().BoolVar(&resolveIDsOnly, "ids", false, "Print enabled tool ids only, one per line")
	resolveCmd.MarkFlagRequired("assessment")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the allowed tool set for an assessment",
	Long: "Loads the layered assessment documents, runs the precedence chain for\n" +
		"every observed feature, and prints the enabled tools with provenance.",
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := assessment.Load(resolveAssessment)
	if err != nil {
		return err
	}

	if resolvePolicy != "" {
		policy, err := assessment.LoadDistrictPolicy(resolvePolicy)
		if err != nil {
			return err
		}
		a.DistrictPolicy = *policy
	}

	engine := resolve.New(registry.NewDefault(), resolve.WithUnknownToolHook(func(e *registry.UnknownToolReferenceError) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}))

	result, err := engine.Resolve(a, resolveItem)
	if err != nil {
		return err
	}

	if resolveIDsOnly {
		for _, id := range result.AllowedToolIDs() {
			fmt.Println(id)
		}
		return nil
	}

	switch resolveFormat {
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
