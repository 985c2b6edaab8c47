// Package explain renders resolution provenance for humans and compliance
// tooling. Formatting never recomputes decisions; it only presents the
// trail produced alongside them.
package explain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/testbridge/toolgate/internal/model"
)

// FormatText renders a resolution result as a human-readable report.
func FormatText(result *model.ResolutionResult) string {
	var b strings.Builder

	s := result.Provenance.Summary
	fmt.Fprintf(&b, "Evaluated %d feature", s.Total)
	if s.Total != 1 {
		b.WriteString("s")
	}
	fmt.Fprintf(&b, ": %d enabled, %d blocked.\n\n", s.Enabled, s.Blocked)

	ids := make([]model.FeatureID, 0, len(result.Provenance.Features))
	for id := range result.Provenance.Features {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		e := result.Provenance.Features[id]
		verdict := "BLOCK"
		if e.Decision == model.Allow {
			verdict = "ALLOW"
		}
		fmt.Fprintf(&b, "  %-5s  %-24s rule %d (%s)\n", verdict, string(id), e.Rule, e.Rule.Label())
		fmt.Fprintf(&b, "         %s\n", e.Explanation)
	}

	if len(result.Tools) > 0 {
		b.WriteString("\nEnabled tools:\n")
		for _, t := range result.Tools {
			if t.AutoActivate {
				fmt.Fprintf(&b, "  %s (auto-activate)\n", t.ID)
			} else {
				fmt.Fprintf(&b, "  %s\n", t.ID)
			}
		}
	} else {
		b.WriteString("\nNo tools enabled.\n")
	}

	return b.String()
}

// FormatJSON renders a resolution result as indented JSON.
func FormatJSON(result *model.ResolutionResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}
