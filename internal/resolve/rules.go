package resolve

import (
	"fmt"

	"github.com/testbridge/toolgate/internal/model"
)

// Layers bundles the four independently-authored intent documents examined
// for one feature evaluation.
type Layers struct {
	Profile  model.PersonalNeedsProfile
	District model.DistrictPolicy
	Session  model.SessionAdministration
	Item     model.ItemRules
}

// RuleFunc tries one precedence rule against a feature id. Returning
// ok=false passes evaluation to the next rule in the chain; the first rule
// to return ok=true decides the feature and short-circuits the rest.
type RuleFunc func(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool)

// DefaultChain returns the seven-rule precedence chain in its documented
// order. Blocks outrank requirements within the chain as written; the
// ordering is intentional and must not be altered.
func DefaultChain() []RuleFunc {
	return []RuleFunc{
		districtBlock,
		sessionOverride,
		itemRestriction,
		itemRequirement,
		districtRequirement,
		profileSupport,
		defaultBlock,
	}
}

// Rule 1: district veto. Terminal; no lower rule can override.
func districtBlock(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	if !l.District.Blocks(id) {
		return model.ProvenanceEntry{}, false
	}
	return model.ProvenanceEntry{
		FeatureID:   id,
		Decision:    model.Block,
		Rule:        model.RuleDistrictBlock,
		Explanation: fmt.Sprintf("blocked by district policy: %q is on the district blocked list", id),
	}, true
}

// Rule 2: session override. Only an explicitly present key is an override;
// its boolean value is the decision either way.
func sessionOverride(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	v, ok := l.Session.Override(id)
	if !ok {
		return model.ProvenanceEntry{}, false
	}
	e := model.ProvenanceEntry{FeatureID: id, Rule: model.RuleSessionOverride}
	if v {
		e.Decision = model.Allow
		e.Explanation = fmt.Sprintf("enabled by session override: the proctor force-enabled %q for this session", id)
	} else {
		e.Decision = model.Block
		e.Explanation = fmt.Sprintf("disabled by session override: the proctor force-disabled %q for this session", id)
	}
	return e, true
}

// Rule 3: item restriction.
func itemRestriction(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	if !l.Item.Restricts(id) {
		return model.ProvenanceEntry{}, false
	}
	return model.ProvenanceEntry{
		FeatureID:   id,
		Decision:    model.Block,
		Rule:        model.RuleItemRestriction,
		Explanation: fmt.Sprintf("restricted by item rules: %q is not permitted on this item", id),
	}, true
}

// Rule 4: item requirement.
func itemRequirement(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	if !l.Item.Requires(id) {
		return model.ProvenanceEntry{}, false
	}
	return model.ProvenanceEntry{
		FeatureID:   id,
		Decision:    model.Allow,
		Rule:        model.RuleItemRequirement,
		Explanation: fmt.Sprintf("required by item rules: this item mandates %q", id),
	}, true
}

// Rule 5: district requirement. Sits below item requirement in the
// documented order.
func districtRequirement(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	if !l.District.Requires(id) {
		return model.ProvenanceEntry{}, false
	}
	return model.ProvenanceEntry{
		FeatureID:   id,
		Decision:    model.Allow,
		Rule:        model.RuleDistrictRequirement,
		Explanation: fmt.Sprintf("required by district policy: the district mandates %q", id),
	}, true
}

// Rule 6: student profile support. prohibitedSupports only negates this
// rule; it cannot block a feature already allowed by rules 2, 4 or 5.
func profileSupport(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	if !l.Profile.Has(id) || l.Profile.Prohibits(id) {
		return model.ProvenanceEntry{}, false
	}
	return model.ProvenanceEntry{
		FeatureID:   id,
		Decision:    model.Allow,
		Rule:        model.RuleProfileSupport,
		Explanation: fmt.Sprintf("allowed by student profile: %q is among the student's documented supports", id),
	}, true
}

// Rule 7: absence of explicit permission is denial. Always decides.
func defaultBlock(l *Layers, id model.FeatureID) (model.ProvenanceEntry, bool) {
	explanation := fmt.Sprintf("blocked by default: no policy layer permits %q", id)
	if l.Profile.Prohibits(id) {
		explanation = fmt.Sprintf("blocked by default: the student profile lists %q as prohibited", id)
	}
	return model.ProvenanceEntry{
		FeatureID:   id,
		Decision:    model.Block,
		Rule:        model.RuleDefaultBlock,
		Explanation: explanation,
	}, true
}
