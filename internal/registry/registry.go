// Package registry owns the set of registered tool descriptors and the
// derived feature→tool index. Pass 2 of the visibility protocol lives
// here: context filtering that can only shrink the Pass-1 allow-list.
package registry

import (
	"sort"

	"github.com/testbridge/toolgate/internal/model"
)

// RelevanceFunc decides whether a tool is worth showing in the given
// content context. A nil func means always relevant.
type RelevanceFunc func(ctx model.ToolContext) bool

// ToolDescriptor describes one registered tool: the content levels it
// supports, the feature ids that enable it, and its relevance predicate.
type ToolDescriptor struct {
	ID              model.ToolID
	SupportedLevels []model.ContentLevel
	FeatureIDs      []model.FeatureID
	Relevant        RelevanceFunc
}

// SupportsLevel reports whether the descriptor lists the given level.
func (d *ToolDescriptor) SupportsLevel(level model.ContentLevel) bool {
	for _, l := range d.SupportedLevels {
		if l == level {
			return true
		}
	}
	return false
}

// IsRelevant evaluates the descriptor's relevance predicate.
func (d *ToolDescriptor) IsRelevant(ctx model.ToolContext) bool {
	if d.Relevant == nil {
		return true
	}
	return d.Relevant(ctx)
}

// Registry maps tool ids to descriptors and maintains the feature→tool
// multimap. Append-only after construction: all registrations must happen
// before the first resolution call, after which the index is treated as
// immutable and is safe for concurrent reads without locking.
type Registry struct {
	descriptors map[model.ToolID]*ToolDescriptor
	index       map[model.FeatureID][]model.ToolID
}

// New returns an empty registry. Process-wide default tool sets come from
// NewDefault; tests build isolated registries per case.
func New() *Registry {
	return &Registry{
		descriptors: make(map[model.ToolID]*ToolDescriptor),
		index:       make(map[model.FeatureID][]model.ToolID),
	}
}

// Register adds a tool descriptor and indexes its feature ids.
// Returns DuplicateToolError if the id already exists.
func (r *Registry) Register(d *ToolDescriptor) error {
	if _, exists := r.descriptors[d.ID]; exists {
		return &DuplicateToolError{ID: d.ID}
	}
	r.descriptors[d.ID] = d
	for _, fid := range d.FeatureIDs {
		r.addBinding(fid, d.ID)
	}
	return nil
}

// Bind adds an explicit feature→tool binding without requiring the tool to
// be registered yet. Bindings to absent tools surface later as
// UnknownToolReferenceError during resolution.
func (r *Registry) Bind(featureID model.FeatureID, toolID model.ToolID) {
	r.addBinding(featureID, toolID)
}

func (r *Registry) addBinding(featureID model.FeatureID, toolID model.ToolID) {
	for _, existing := range r.index[featureID] {
		if existing == toolID {
			return
		}
	}
	r.index[featureID] = append(r.index[featureID], toolID)
}

// Get returns the descriptor for a tool id.
func (r *Registry) Get(id model.ToolID) (*ToolDescriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// ToolIDsForFeature returns the tool ids enabled by a feature, via the
// precomputed index. The returned slice is shared; callers must not
// mutate it.
func (r *Registry) ToolIDsForFeature(featureID model.FeatureID) []model.ToolID {
	return r.index[featureID]
}

// ToolIDs returns all registered tool ids in sorted order.
func (r *Registry) ToolIDs() []model.ToolID {
	ids := make([]model.ToolID, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FilterVisibleInContext is Pass 2 of the visibility protocol: for each id
// in allowedIDs, keep the tool only if the context's level is among its
// supported levels and its relevance predicate accepts the context.
//
// This is a pure filter. It can only remove tools from the approved set,
// never add tools outside it. Ids without a registered descriptor are
// dropped.
func (r *Registry) FilterVisibleInContext(allowedIDs []model.ToolID, ctx model.ToolContext) []*ToolDescriptor {
	visible := make([]*ToolDescriptor, 0, len(allowedIDs))
	for _, id := range allowedIDs {
		d, ok := r.descriptors[id]
		if !ok {
			continue
		}
		if !d.SupportsLevel(ctx.Level) {
			continue
		}
		if !d.IsRelevant(ctx) {
			continue
		}
		visible = append(visible, d)
	}
	return visible
}
