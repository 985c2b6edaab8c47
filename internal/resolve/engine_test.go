package resolve

import (
	"reflect"
	"testing"

	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
)

func testAssessment() *model.Assessment {
	return &model.Assessment{
		ID: "asmt-1",
		PersonalNeedsProfile: model.PersonalNeedsProfile{
			Supports: []model.FeatureID{"calculator"},
		},
		Session: model.SessionAdministration{Mode: model.ModeTest},
	}
}

func calcRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	if err := reg.Register(&registry.ToolDescriptor{
		ID:              "calculator",
		SupportedLevels: []model.ContentLevel{model.LevelHigh},
		FeatureIDs:      []model.FeatureID{"calculator", "graphingCalculator"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(&registry.ToolDescriptor{
		ID:              "textToSpeech",
		SupportedLevels: []model.ContentLevel{model.LevelHigh},
		FeatureIDs:      []model.FeatureID{"textToSpeech"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func hasEnabledTool(result *model.ResolutionResult, id model.ToolID) bool {
	for _, t := range result.Tools {
		if t.ID == id && t.Enabled {
			return true
		}
	}
	return false
}

func TestDistrictBlockWinsOverEverything(t *testing.T) {
	a := testAssessment()
	a.DistrictPolicy.BlockedTools = []model.FeatureID{"calculator"}
	a.DistrictPolicy.RequiredTools = []model.FeatureID{"calculator"}
	a.Session.ToolOverrides = map[model.FeatureID]bool{"calculator": true}
	a.Items = map[string]model.ItemRules{
		"item-1": {RequiredTools: []model.FeatureID{"calculator"}},
	}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "item-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if hasEnabledTool(result, "calculator") {
		t.Error("expected no calculator tool despite requirements and overrides")
	}
	entry := result.Provenance.Features["calculator"]
	if entry.Decision != model.Block {
		t.Errorf("expected block, got %s", entry.Decision)
	}
	if entry.Rule != model.RuleDistrictBlock {
		t.Errorf("expected rule 1, got %d", entry.Rule)
	}
}

func TestItemRestrictionWinsOverProfile(t *testing.T) {
	a := testAssessment()
	a.Items = map[string]model.ItemRules{
		"item-1": {RestrictedTools: []model.FeatureID{"calculator"}},
	}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "item-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if hasEnabledTool(result, "calculator") {
		t.Error("expected calculator blocked by item restriction")
	}
	if got := result.Provenance.Features["calculator"].Rule; got != model.RuleItemRestriction {
		t.Errorf("expected rule 3, got %d", got)
	}
}

func TestItemRequirementForcesEnableWithoutProfileSupport(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = nil
	a.Items = map[string]model.ItemRules{
		"item-1": {RequiredTools: []model.FeatureID{"calculator"}},
	}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "item-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if !hasEnabledTool(result, "calculator") {
		t.Error("expected calculator enabled by item requirement")
	}
	if got := result.Provenance.Features["calculator"].Rule; got != model.RuleItemRequirement {
		t.Errorf("expected rule 4, got %d", got)
	}
}

func TestSessionOverrideIsSessionScoped(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = []model.FeatureID{"textToSpeech"}
	a.Session.ToolOverrides = map[model.FeatureID]bool{"textToSpeech": false}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if hasEnabledTool(result, "textToSpeech") {
		t.Error("expected textToSpeech disabled by session override")
	}
	if got := result.Provenance.Features["textToSpeech"].Rule; got != model.RuleSessionOverride {
		t.Errorf("expected rule 2, got %d", got)
	}

	// Removing the override key restores the profile-driven allow.
	a.Session.ToolOverrides = nil
	result, err = engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !hasEnabledTool(result, "textToSpeech") {
		t.Error("expected textToSpeech re-enabled after override removal")
	}
	if got := result.Provenance.Features["textToSpeech"].Rule; got != model.RuleProfileSupport {
		t.Errorf("expected rule 6, got %d", got)
	}
}

func TestSessionOverrideForceEnable(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = nil
	a.Session.ToolOverrides = map[model.FeatureID]bool{"calculator": true}
	a.Items = map[string]model.ItemRules{
		"item-1": {RestrictedTools: []model.FeatureID{"calculator"}},
	}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "item-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Rule 2 sits above the item restriction at rule 3.
	if !hasEnabledTool(result, "calculator") {
		t.Error("expected calculator force-enabled by session override")
	}
	if got := result.Provenance.Features["calculator"].Rule; got != model.RuleSessionOverride {
		t.Errorf("expected rule 2, got %d", got)
	}
}

func TestDistrictRequirementBelowItemRequirement(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = nil
	a.DistrictPolicy.RequiredTools = []model.FeatureID{"calculator"}
	a.Items = map[string]model.ItemRules{
		"item-1": {RequiredTools: []model.FeatureID{"calculator"}},
	}

	engine := New(calcRegistry(t))

	result, err := engine.Resolve(a, "item-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := result.Provenance.Features["calculator"].Rule; got != model.RuleItemRequirement {
		t.Errorf("with item context: expected rule 4, got %d", got)
	}

	// Without the item layer, the district requirement decides.
	result, err = engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := result.Provenance.Features["calculator"].Rule; got != model.RuleDistrictRequirement {
		t.Errorf("without item context: expected rule 5, got %d", got)
	}
}

func TestProhibitedSupportsOnlyNegatesProfileRule(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = []model.FeatureID{"calculator"}
	a.PersonalNeedsProfile.ProhibitedSupports = []model.FeatureID{"calculator"}

	engine := New(calcRegistry(t))

	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	entry := result.Provenance.Features["calculator"]
	if entry.Decision != model.Block || entry.Rule != model.RuleDefaultBlock {
		t.Errorf("expected default block for prohibited support, got %s rule %d", entry.Decision, entry.Rule)
	}

	// A district requirement at rule 5 is not negated by the prohibition.
	a.DistrictPolicy.RequiredTools = []model.FeatureID{"calculator"}
	result, err = engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	entry = result.Provenance.Features["calculator"]
	if entry.Decision != model.Allow || entry.Rule != model.RuleDistrictRequirement {
		t.Errorf("expected rule 5 allow despite prohibition, got %s rule %d", entry.Decision, entry.Rule)
	}
}

func TestOverrideNeverMutatesStoredProfile(t *testing.T) {
	a := testAssessment()
	engine := New(calcRegistry(t))

	before, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	synthetic := &model.PersonalNeedsProfile{
		Supports: []model.FeatureID{"textToSpeech", "graphingCalculator"},
	}
	if _, err := engine.ResolveWithOverride(a, synthetic, ""); err != nil {
		t.Fatalf("resolve with override: %v", err)
	}

	after, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if !reflect.DeepEqual(before, after) {
		t.Error("production resolution changed after an override call")
	}
}

func TestNullProfileBehavesAsEmptySupports(t *testing.T) {
	a := testAssessment()
	a.DistrictPolicy.RequiredTools = []model.FeatureID{"textToSpeech"}

	engine := New(calcRegistry(t))
	result, err := engine.ResolveWithOverride(a, nil, "")
	if err != nil {
		t.Fatalf("resolve with override: %v", err)
	}

	if hasEnabledTool(result, "calculator") {
		t.Error("profile-supported calculator should vanish with a nil override")
	}
	if !hasEnabledTool(result, "textToSpeech") {
		t.Error("district-required textToSpeech should survive a nil override")
	}
}

func TestToolEnabledThroughAnyMappedFeature(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = []model.FeatureID{"graphingCalculator"}
	a.DistrictPolicy.BlockedTools = []model.FeatureID{"calculator"}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// The calculator feature is blocked, but graphingCalculator maps to the
	// same tool and resolves to allow.
	if !hasEnabledTool(result, "calculator") {
		t.Error("expected calculator tool enabled via graphingCalculator feature")
	}
}

func TestSummaryCountsMatchDecisions(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.Supports = []model.FeatureID{"calculator", "textToSpeech"}
	a.DistrictPolicy.BlockedTools = []model.FeatureID{"textToSpeech"}
	a.Session.ToolOverrides = map[model.FeatureID]bool{"magnifier": true}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	s := result.Provenance.Summary
	if s.Total != 3 {
		t.Errorf("expected 3 candidates, got %d", s.Total)
	}
	if s.Enabled != 2 || s.Blocked != 1 {
		t.Errorf("expected 2 enabled / 1 blocked, got %d/%d", s.Enabled, s.Blocked)
	}
	if s.Enabled+s.Blocked != s.Total {
		t.Error("summary counts do not add up")
	}
}

func TestAutoActivateFromProfile(t *testing.T) {
	a := testAssessment()
	a.PersonalNeedsProfile.ActivateAtInit = []model.FeatureID{"calculator"}

	engine := New(calcRegistry(t))
	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for _, tool := range result.Tools {
		if tool.ID == "calculator" && !tool.AutoActivate {
			t.Error("expected calculator marked auto-activate")
		}
	}
}

func TestUnknownToolReferenceHook(t *testing.T) {
	reg := calcRegistry(t)
	reg.Bind("custom:braille", "brailleDisplay")

	var seen []*registry.UnknownToolReferenceError
	engine := New(reg, WithUnknownToolHook(func(e *registry.UnknownToolReferenceError) {
		seen = append(seen, e)
	}))

	a := testAssessment()
	a.PersonalNeedsProfile.Supports = []model.FeatureID{"custom:braille"}

	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Allow-with-no-effect: the feature is allowed but no tool appears.
	if got := result.Provenance.Features["custom:braille"].Decision; got != model.Allow {
		t.Errorf("expected allow, got %s", got)
	}
	if hasEnabledTool(result, "brailleDisplay") {
		t.Error("unregistered tool must not appear in the result")
	}
	if len(seen) != 1 {
		t.Fatalf("expected 1 unknown-tool report, got %d", len(seen))
	}
	if seen[0].FeatureID != "custom:braille" || seen[0].ToolID != "brailleDisplay" {
		t.Errorf("unexpected report: %v", seen[0])
	}
}

func TestValidationFailsBeforeChain(t *testing.T) {
	a := testAssessment()
	a.Session.Mode = "rehearsal"

	engine := New(calcRegistry(t))
	if _, err := engine.Resolve(a, ""); err == nil {
		t.Fatal("expected validation error for unknown session mode")
	}
}

func TestCustomChainOrder(t *testing.T) {
	// A chain with the profile rule first inverts the usual precedence.
	chain := []RuleFunc{profileSupport, districtBlock, defaultBlock}

	a := testAssessment()
	a.DistrictPolicy.BlockedTools = []model.FeatureID{"calculator"}

	engine := New(calcRegistry(t), WithChain(chain))
	result, err := engine.Resolve(a, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := result.Provenance.Features["calculator"].Rule; got != model.RuleProfileSupport {
		t.Errorf("custom chain: expected rule 6 to fire first, got %d", got)
	}
}

func TestAllowedToolIDsProjection(t *testing.T) {
	a := testAssessment()
	engine := New(calcRegistry(t))

	ids, err := engine.AllowedToolIDs(a, "")
	if err != nil {
		t.Fatalf("allowed tool ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "calculator" {
		t.Errorf("expected [calculator], got %v", ids)
	}
}
