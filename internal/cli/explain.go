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
	explainAssessment string
	explainPolicy     string
	explainItem       string
	explainFeature    string
)

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().StringVar(&explainAssessment, "assessment", "", "Path to assessment YAML/JSON (required)")
	explainCmd.Flags().StringVar(&explainPolicy, "policy", "", "Path to district policy YAML (overrides the assessment's district layer)")
	explainCmd.Flags().StringVar(&explainItem, "item", "", "Item reference selecting per-item rules")
	explainCmd.Flags().StringVar(&explainFeature, "feature", "", "Explain a single feature id instead of the full trail")
	explainCmd.MarkFlagRequired("assessment")
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show why each feature was allowed or blocked",
	Long: "Runs resolution and prints the provenance trail: for every observed\n" +
		"feature, the decision, the rule that made it, and a plain-language\n" +
		"explanation naming the source document.",
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	a, err := assessment.Load(explainAssessment)
	if err != nil {
		return err
	}

	if explainPolicy != "" {
		policy, err := assessment.LoadDistrictPolicy(explainPolicy)
		if err != nil {
			return err
		}
		a.DistrictPolicy = *policy
	}

	engine := resolve.New(registry.NewDefault())
	result, err := engine.Resolve(a, explainItem)
	if err != nil {
		return err
	}

	if explainFeature != "" {
		e, ok := result.Provenance.Features[model.FeatureID(explainFeature)]
		if !ok {
			return fmt.Errorf("feature %q was not observed in any document", explainFeature)
		}
		verdict := "BLOCK"
		if e.Decision == model.Allow {
			verdict = "ALLOW"
		}
		fmt.Printf("%s  %s  rule %d (%s)\n%s\n", verdict, explainFeature, e.Rule, e.Rule.Label(), e.Explanation)
		return nil
	}

	fmt.Print(explain.FormatText(result))
	return nil
}
