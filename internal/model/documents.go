package model

// PersonalNeedsProfile (PNP) is a student's documented accessibility
// entitlements. Owned by upstream identity/accommodation systems and
// read-only to the engine.
type PersonalNeedsProfile struct {
	Supports           []FeatureID `json:"supports" yaml:"supports"`
	ProhibitedSupports []FeatureID `json:"prohibitedSupports" yaml:"prohibited_supports"`
	ActivateAtInit     []FeatureID `json:"activateAtInit" yaml:"activate_at_init"`
}

// DistrictPolicy is institutional policy: an absolute veto list and a
// mandatory enablement list.
type DistrictPolicy struct {
	BlockedTools  []FeatureID `json:"blockedTools" yaml:"blocked_tools"`
	RequiredTools []FeatureID `json:"requiredTools" yaml:"required_tools"`
}

// SessionAdministration carries proctor-scoped state for one test session.
// ToolOverrides force-enable or force-disable a feature for the session;
// an absent key means no override.
type SessionAdministration struct {
	Mode          SessionMode        `json:"mode" yaml:"mode"`
	ToolOverrides map[FeatureID]bool `json:"toolOverrides" yaml:"tool_overrides"`
}

// ItemRules are authored per assessment item and immutable at resolution
// time.
type ItemRules struct {
	RequiredTools   []FeatureID `json:"requiredTools" yaml:"required_tools"`
	RestrictedTools []FeatureID `json:"restrictedTools" yaml:"restricted_tools"`
}

// Assessment bundles the layered intent documents for one student's test
// sitting. Item rules are keyed by item reference; a missing key means the
// item imposes no rules.
type Assessment struct {
	ID                   string                `json:"id" yaml:"id"`
	PersonalNeedsProfile PersonalNeedsProfile  `json:"personalNeedsProfile" yaml:"personal_needs_profile"`
	DistrictPolicy       DistrictPolicy        `json:"districtPolicy" yaml:"district_policy"`
	Session              SessionAdministration `json:"session" yaml:"session"`
	Items                map[string]ItemRules  `json:"items,omitempty" yaml:"items"`
}

// ItemRulesFor returns the rules for an item reference. Empty ref or an
// unknown item yields the zero rules (no requirements, no restrictions).
func (a *Assessment) ItemRulesFor(itemRef string) ItemRules {
	if itemRef == "" || a.Items == nil {
		return ItemRules{}
	}
	return a.Items[itemRef]
}

// Has reports membership of id in the profile's supports.
func (p *PersonalNeedsProfile) Has(id FeatureID) bool {
	return contains(p.Supports, id)
}

// Prohibits reports membership of id in the profile's explicit denials.
func (p *PersonalNeedsProfile) Prohibits(id FeatureID) bool {
	return contains(p.ProhibitedSupports, id)
}

// WantsAtInit reports whether the profile asks for id to be pre-enabled.
func (p *PersonalNeedsProfile) WantsAtInit(id FeatureID) bool {
	return contains(p.ActivateAtInit, id)
}

// Blocks reports membership of id in the district veto list.
func (d *DistrictPolicy) Blocks(id FeatureID) bool {
	return contains(d.BlockedTools, id)
}

// Requires reports membership of id in the district mandatory list.
func (d *DistrictPolicy) Requires(id FeatureID) bool {
	return contains(d.RequiredTools, id)
}

// Override returns the session override for id, and whether one is set.
// Absence is meaningful: only an explicitly present key is an override.
func (s *SessionAdministration) Override(id FeatureID) (bool, bool) {
	if s.ToolOverrides == nil {
		return false, false
	}
	v, ok := s.ToolOverrides[id]
	return v, ok
}

// Requires reports membership of id in the item's required list.
func (r ItemRules) Requires(id FeatureID) bool {
	return contains(r.RequiredTools, id)
}

// Restricts reports membership of id in the item's restricted list.
func (r ItemRules) Restricts(id FeatureID) bool {
	return contains(r.RestrictedTools, id)
}

func contains(ids []FeatureID, id FeatureID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
