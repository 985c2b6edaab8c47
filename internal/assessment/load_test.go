package assessment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/testbridge/toolgate/internal/model"
)

const assessmentYAML = `id: asmt-42
personal_needs_profile:
  supports: [calculator, textToSpeech]
  prohibited_supports: [thesaurus]
  activate_at_init: [textToSpeech]
district_policy:
  blocked_tools: [graphingCalculator]
  required_tools: [masking]
session:
  mode: test
  tool_overrides:
    highlighter: false
items:
  item-1:
    required_tools: [scratchpad]
    restricted_tools: [dictionary]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	a, err := Load(writeFile(t, "a.yaml", assessmentYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if a.ID != "asmt-42" {
		t.Errorf("id: %s", a.ID)
	}
	if !a.PersonalNeedsProfile.Has("calculator") {
		t.Error("missing profile support")
	}
	if !a.DistrictPolicy.Blocks("graphingCalculator") {
		t.Error("missing district block")
	}
	if v, ok := a.Session.Override("highlighter"); !ok || v {
		t.Error("missing session override")
	}
	rules := a.ItemRulesFor("item-1")
	if !rules.Requires("scratchpad") || !rules.Restricts("dictionary") {
		t.Error("missing item rules")
	}
}

func TestLoadJSON(t *testing.T) {
	content := `{
  "id": "asmt-7",
  "personalNeedsProfile": {"supports": ["magnifier"]},
  "session": {"mode": "practice"}
}`
	a, err := Load(writeFile(t, "a.json", content))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Session.Mode != model.ModePractice {
		t.Errorf("mode: %s", a.Session.Mode)
	}
	if !a.PersonalNeedsProfile.Has("magnifier") {
		t.Error("missing profile support")
	}
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	// supports must be an array of ids, not a scalar.
	if _, err := Load(writeFile(t, "bad.yaml", "id: x\npersonal_needs_profile:\n  supports: true\nsession:\n  mode: test\n")); err == nil {
		t.Fatal("expected parse error for non-array supports")
	}
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	if _, err := Load(writeFile(t, "bad.yaml", "id: x\nsession:\n  mode: dress-rehearsal\n")); err == nil {
		t.Fatal("expected validation error for unknown mode")
	}
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile(writeFile(t, "p.yaml", "supports: [lineReader]\n"))
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if !p.Has("lineReader") {
		t.Error("missing support")
	}
}

func TestLoadDistrictPolicyWithHash(t *testing.T) {
	path := writeFile(t, "policy.yaml", "blocked_tools: [calculator]\n")

	p, hash, err := LoadDistrictPolicyWithHash(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !p.Blocks("calculator") {
		t.Error("missing block")
	}
	if len(hash) != len("sha256:")+64 {
		t.Errorf("malformed hash: %s", hash)
	}

	// Same bytes, same hash.
	_, hash2, err := LoadDistrictPolicyWithHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if hash != hash2 {
		t.Error("hash not deterministic")
	}
}

func TestLoadDistrictPolicyMissingFile(t *testing.T) {
	p, hash, err := LoadDistrictPolicyWithHash(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(p.BlockedTools) != 0 || len(p.RequiredTools) != 0 {
		t.Error("expected empty policy")
	}
	if hash == "" {
		t.Error("expected hash of empty input")
	}
}
