package model

// FeatureID names an accessibility capability a student may be entitled to,
// e.g. "calculator" or "textToSpeech". Standardized ids live in the feature
// catalog; integrators may introduce their own under the "custom:" namespace.
type FeatureID string

// ToolID names a concrete UI capability (the calculator widget, the
// magnifier). One tool may be enabled by several feature ids.
type ToolID string

// Decision is the per-feature outcome of the precedence chain.
type Decision string

const (
	Allow Decision = "allow"
	Block Decision = "block"
)

// Rule identifies which step of the precedence chain decided a feature.
// Lower number = higher priority. The order must not be changed.
type Rule int

const (
	RuleDistrictBlock       Rule = 1
	RuleSessionOverride     Rule = 2
	RuleItemRestriction     Rule = 3
	RuleItemRequirement     Rule = 4
	RuleDistrictRequirement Rule = 5
	RuleProfileSupport      Rule = 6
	RuleDefaultBlock        Rule = 7
)

// Label returns a short machine-readable name for the rule, used in
// provenance output and scenario assertions.
func (r Rule) Label() string {
	switch r {
	case RuleDistrictBlock:
		return "district.block"
	case RuleSessionOverride:
		return "session.override"
	case RuleItemRestriction:
		return "item.restriction"
	case RuleItemRequirement:
		return "item.requirement"
	case RuleDistrictRequirement:
		return "district.requirement"
	case RuleProfileSupport:
		return "profile.support"
	case RuleDefaultBlock:
		return "default.block"
	default:
		return "unknown"
	}
}

// SessionMode classifies the administration context of a test session.
type SessionMode string

const (
	ModePractice  SessionMode = "practice"
	ModeTest      SessionMode = "test"
	ModeBenchmark SessionMode = "benchmark"
)

// ContentLevel is the grade band a tool supports. Pass-2 filtering drops
// tools whose descriptor does not list the context's level.
type ContentLevel string

const (
	LevelElementary ContentLevel = "elementary"
	LevelMiddle     ContentLevel = "middle"
	LevelHigh       ContentLevel = "high"
)

// ToolContext describes the content being presented right now. It feeds
// Pass-2 relevance filtering only; the precedence chain never sees it.
type ToolContext struct {
	Level   ContentLevel `json:"level"`
	Subject string       `json:"subject,omitempty"`
	Tags    []string     `json:"tags,omitempty"`
}

// HasTag reports whether the context carries the given content tag.
func (c ToolContext) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
