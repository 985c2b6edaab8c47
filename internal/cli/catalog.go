package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/assessment"
	"github.com/testbridge/toolgate/internal/catalog"
	"github.com/testbridge/toolgate/internal/model"
)

var (
	catalogPath  string
	catalogCheck string
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a catalog extension YAML")
	catalogCmd.Flags().StringVar(&catalogCheck, "check", "", "Assessment file to check for unrecognized feature ids")
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List standardized feature identifiers",
	Long: "Prints the feature catalog by category. With --check, reports feature\n" +
		"ids in an assessment that are neither standardized nor custom\n" +
		"namespaced (likely typos). The catalog never gates resolution.",
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	if catalogCheck != "" {
		return checkAssessmentIDs(cat, catalogCheck)
	}

	fmt.Printf("Feature catalog %s\n\n", cat.Version())
	categories := []catalog.Category{
		catalog.Visual, catalog.Auditory, catalog.Motor, catalog.Cognitive,
		catalog.Reading, catalog.Navigation, catalog.Linguistic, catalog.Assessment,
	}
	for _, c := range categories {
		var ids []model.FeatureID
		for _, id := range cat.Features() {
			if got, _ := cat.CategoryOf(id); got == c {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		fmt.Printf("%s:\n", c)
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}

func checkAssessmentIDs(cat *catalog.Catalog, path string) error {
	a, err := assessment.Load(path)
	if err != nil {
		return err
	}

	var ids []model.FeatureID
	ids = append(ids, a.PersonalNeedsProfile.Supports...)
	ids = append(ids, a.PersonalNeedsProfile.ProhibitedSupports...)
	ids = append(ids, a.PersonalNeedsProfile.ActivateAtInit...)
	ids = append(ids, a.DistrictPolicy.BlockedTools...)
	ids = append(ids, a.DistrictPolicy.RequiredTools...)
	for id := range a.Session.ToolOverrides {
		ids = append(ids, id)
	}
	for _, rules := range a.Items {
		ids = append(ids, rules.RequiredTools...)
		ids = append(ids, rules.RestrictedTools...)
	}

	unknown := cat.Unrecognized(ids)
	if len(unknown) == 0 {
		fmt.Println("All feature ids are standardized or custom namespaced.")
		return nil
	}
	fmt.Printf("%d unrecognized feature id(s):\n", len(unknown))
	for _, id := range unknown {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
