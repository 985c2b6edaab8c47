package explain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/testbridge/toolgate/internal/model"
)

func sampleResult() *model.ResolutionResult {
	return &model.ResolutionResult{
		Tools: []model.ResolvedToolConfig{
			{ID: "calculator", Enabled: true},
			{ID: "textToSpeech", Enabled: true, AutoActivate: true},
		},
		Provenance: model.Provenance{
			Features: map[model.FeatureID]model.ProvenanceEntry{
				"calculator": {
					FeatureID:   "calculator",
					Decision:    model.Allow,
					Rule:        model.RuleProfileSupport,
					Explanation: `allowed by student profile: "calculator" is among the student's documented supports`,
				},
				"magnifier": {
					FeatureID:   "magnifier",
					Decision:    model.Block,
					Rule:        model.RuleDistrictBlock,
					Explanation: `blocked by district policy: "magnifier" is on the district blocked list`,
				},
			},
			Summary: model.ResolutionSummary{Total: 2, Enabled: 1, Blocked: 1},
		},
	}
}

func TestFormatTextStructure(t *testing.T) {
	out := FormatText(sampleResult())

	if !strings.Contains(out, "Evaluated 2 features: 1 enabled, 1 blocked.") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "ALLOW") || !strings.Contains(out, "BLOCK") {
		t.Errorf("missing verdicts:\n%s", out)
	}
	if !strings.Contains(out, "rule 1 (district.block)") {
		t.Errorf("missing rule annotation:\n%s", out)
	}
	if !strings.Contains(out, "textToSpeech (auto-activate)") {
		t.Errorf("missing auto-activate marker:\n%s", out)
	}
}

func TestFormatTextNoTools(t *testing.T) {
	r := sampleResult()
	r.Tools = nil
	out := FormatText(r)
	if !strings.Contains(out, "No tools enabled.") {
		t.Errorf("missing empty-tools line:\n%s", out)
	}
}

func TestFormatJSONRoundTrips(t *testing.T) {
	out, err := FormatJSON(sampleResult())
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var parsed model.ResolutionResult
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Provenance.Summary.Total != 2 {
		t.Errorf("summary lost in round trip: %+v", parsed.Provenance.Summary)
	}
	if got := parsed.Provenance.Features["magnifier"].Rule; got != model.RuleDistrictBlock {
		t.Errorf("rule lost in round trip: %d", got)
	}
}
