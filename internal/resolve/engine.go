// Package resolve implements Pass 1 of the visibility protocol: merging a
// student's accessibility profile, district policy, session overrides and
// per-item rules into a single allow/block decision per feature, with a
// provenance trail recording which precedence rule fired.
package resolve

import (
	"fmt"
	"sort"

	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
)

// UnknownToolHook receives features that resolved to allow but map to an
// unregistered tool id. Integrators decide whether to log or ignore;
// resolution itself treats these as allow-with-no-effect.
type UnknownToolHook func(err *registry.UnknownToolReferenceError)

// Engine computes tool resolutions against a read-only registry. It holds
// no mutable state between calls: every resolution is a pure function of
// the input documents and the registry index, so concurrent calls need no
// locking as long as the registry is fully built first.
type Engine struct {
	registry      *registry.Registry
	chain         []RuleFunc
	onUnknownTool UnknownToolHook
}

// Option configures an Engine at creation time.
type Option func(*Engine)

// WithChain replaces the default precedence chain. Rules run in slice
// order; the last rule must always decide.
func WithChain(chain []RuleFunc) Option {
	return func(e *Engine) { e.chain = chain }
}

// WithUnknownToolHook installs a callback for unregistered tool
// references.
func WithUnknownToolHook(hook UnknownToolHook) Option {
	return func(e *Engine) { e.onUnknownTool = hook }
}

// New creates an Engine bound to a registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		chain:    DefaultChain(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Resolve is the production entry point: the profile comes from the
// assessment's personal needs profile. itemRef selects the item rules;
// empty ref means no item context.
func (e *Engine) Resolve(a *model.Assessment, itemRef string) (*model.ResolutionResult, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return e.run(a.PersonalNeedsProfile, a, itemRef), nil
}

// ResolveWithOverride substitutes the caller-supplied profile wholesale
// for the assessment's real one before running the same precedence chain.
// A nil override behaves as an empty profile. The assessment's stored
// profile is never touched, and all policy layers still apply unchanged.
func (e *Engine) ResolveWithOverride(a *model.Assessment, override *model.PersonalNeedsProfile, itemRef string) (*model.ResolutionResult, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	var profile model.PersonalNeedsProfile
	if override != nil {
		if err := override.Validate(); err != nil {
			return nil, fmt.Errorf("override profile: %w", err)
		}
		profile = *override
	}
	return e.run(profile, a, itemRef), nil
}

// AllowedToolIDs is the ids-only projection of Resolve.
func (e *Engine) AllowedToolIDs(a *model.Assessment, itemRef string) ([]model.ToolID, error) {
	result, err := e.Resolve(a, itemRef)
	if err != nil {
		return nil, err
	}
	return result.AllowedToolIDs(), nil
}

// run evaluates the candidate features and maps allowed ones to tools.
// The profile argument is the effective profile (real or substituted).
func (e *Engine) run(profile model.PersonalNeedsProfile, a *model.Assessment, itemRef string) *model.ResolutionResult {
	layers := &Layers{
		Profile:  profile,
		District: a.DistrictPolicy,
		Session:  a.Session,
		Item:     a.ItemRulesFor(itemRef),
	}

	candidates := candidateFeatures(layers)

	provenance := model.Provenance{
		Features: make(map[model.FeatureID]model.ProvenanceEntry, len(candidates)),
	}
	allowed := make([]model.FeatureID, 0, len(candidates))

	for _, id := range candidates {
		entry := e.decide(layers, id)
		provenance.Features[id] = entry
		provenance.Summary.Total++
		if entry.Decision == model.Allow {
			provenance.Summary.Enabled++
			allowed = append(allowed, id)
		} else {
			provenance.Summary.Blocked++
		}
	}

	return &model.ResolutionResult{
		Tools:      e.mapToTools(allowed, &profile),
		Provenance: provenance,
	}
}

// decide runs the precedence chain for one feature. The default chain ends
// in a rule that always decides; a custom chain that decides nothing gets
// the same default-block treatment.
func (e *Engine) decide(layers *Layers, id model.FeatureID) model.ProvenanceEntry {
	for _, rule := range e.chain {
		if entry, ok := rule(layers, id); ok {
			return entry
		}
	}
	entry, _ := defaultBlock(layers, id)
	return entry
}

// mapToTools projects allowed features through the registry index.
// A tool is included if any of its mapped features resolved to allow.
func (e *Engine) mapToTools(allowed []model.FeatureID, profile *model.PersonalNeedsProfile) []model.ResolvedToolConfig {
	type toolState struct {
		autoActivate bool
	}
	states := make(map[model.ToolID]*toolState)

	for _, fid := range allowed {
		for _, tid := range e.registry.ToolIDsForFeature(fid) {
			if _, registered := e.registry.Get(tid); !registered {
				if e.onUnknownTool != nil {
					e.onUnknownTool(&registry.UnknownToolReferenceError{FeatureID: fid, ToolID: tid})
				}
				continue
			}
			st, ok := states[tid]
			if !ok {
				st = &toolState{}
				states[tid] = st
			}
			if profile.WantsAtInit(fid) {
				st.autoActivate = true
			}
		}
	}

	ids := make([]model.ToolID, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tools := make([]model.ResolvedToolConfig, 0, len(ids))
	for _, id := range ids {
		tools = append(tools, model.ResolvedToolConfig{
			ID:           id,
			Enabled:      true,
			AutoActivate: states[id].autoActivate,
		})
	}
	return tools
}

// candidateFeatures returns the union of feature ids observed across all
// four documents, sorted for deterministic evaluation order.
func candidateFeatures(l *Layers) []model.FeatureID {
	seen := make(map[model.FeatureID]bool)
	add := func(ids []model.FeatureID) {
		for _, id := range ids {
			seen[id] = true
		}
	}
	add(l.Profile.Supports)
	add(l.Profile.ProhibitedSupports)
	add(l.District.BlockedTools)
	add(l.District.RequiredTools)
	add(l.Item.RequiredTools)
	add(l.Item.RestrictedTools)
	for id := range l.Session.ToolOverrides {
		seen[id] = true
	}

	ids := make([]model.FeatureID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
