package toolgate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
)

func testAssessment() *model.Assessment {
	return &model.Assessment{
		ID: "asmt-1",
		PersonalNeedsProfile: model.PersonalNeedsProfile{
			Supports:       []model.FeatureID{"calculator", "textToSpeech"},
			ActivateAtInit: []model.FeatureID{"textToSpeech"},
		},
		Session: model.SessionAdministration{Mode: model.ModeTest},
	}
}

func TestClientResolve(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer c.Close()

	result, err := c.Resolve(testAssessment(), "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	ids := result.AllowedToolIDs()
	if len(ids) != 2 {
		t.Fatalf("expected calculator and textToSpeech, got %v", ids)
	}
	for _, tool := range result.Tools {
		if tool.ID == "textToSpeech" && !tool.AutoActivate {
			t.Error("textToSpeech should auto-activate")
		}
	}
}

func TestClientDistrictPolicyReplacesLayer(t *testing.T) {
	policyPath := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(policyPath, []byte("blocked_tools: [calculator]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := New(WithDistrictPolicy(policyPath))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer c.Close()

	a := testAssessment()
	result, err := c.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for _, tool := range result.Tools {
		if tool.ID == "calculator" {
			t.Error("client policy should veto calculator")
		}
	}
	// The caller's document is untouched.
	if len(a.DistrictPolicy.BlockedTools) != 0 {
		t.Error("client mutated the caller's assessment")
	}
}

func TestClientVisibleToolsSubset(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	result, err := c.Resolve(testAssessment(), "")
	if err != nil {
		t.Fatal(err)
	}

	allowed := result.AllowedToolIDs()
	visible := c.VisibleTools(allowed, model.ToolContext{Level: model.LevelElementary, Subject: "reading"})

	if len(visible) > len(allowed) {
		t.Error("pass 2 grew the list")
	}
	for _, d := range visible {
		// The calculator descriptor excludes elementary content.
		if d.ID == "calculator" {
			t.Error("calculator should be hidden at elementary level")
		}
	}
}

func TestClientCustomRegistryAndHook(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(&registry.ToolDescriptor{
		ID:              "readAloud",
		SupportedLevels: []model.ContentLevel{model.LevelElementary},
		FeatureIDs:      []model.FeatureID{"textToSpeech"},
	}); err != nil {
		t.Fatal(err)
	}
	reg.Bind("calculator", "ghostCalc")

	var reported []string
	c, err := New(
		WithRegistry(reg),
		WithUnknownToolHook(func(featureID, toolID string) {
			reported = append(reported, featureID+"->"+toolID)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	result, err := c.Resolve(testAssessment(), "")
	if err != nil {
		t.Fatal(err)
	}

	ids := result.AllowedToolIDs()
	if len(ids) != 1 || ids[0] != "readAloud" {
		t.Errorf("expected [readAloud], got %v", ids)
	}
	if len(reported) != 1 || reported[0] != "calculator->ghostCalc" {
		t.Errorf("unknown tool hook: %v", reported)
	}
}

func TestClientAuditLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "resolutions.jsonl")

	c, err := New(WithAuditLog(logPath))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Resolve(testAssessment(), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ResolveWithOverride(testAssessment(), nil, ""); err != nil {
		t.Fatal(err)
	}
	c.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("audit log missing: %v", err)
	}
	if len(data) == 0 {
		t.Error("audit log empty after two resolutions")
	}
}
