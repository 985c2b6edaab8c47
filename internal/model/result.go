package model

// ResolvedToolConfig is one Pass-1 output entry. Tools reachable only via
// blocked features are omitted from the result entirely; consumers treat
// absence as disabled, not as an error.
type ResolvedToolConfig struct {
	ID           ToolID `json:"id"`
	Enabled      bool   `json:"enabled"`
	AutoActivate bool   `json:"autoActivate,omitempty"`
}

// ProvenanceEntry explains the fate of one feature id: which precedence
// rule decided it and a human-readable sentence naming the source document.
type ProvenanceEntry struct {
	FeatureID   FeatureID `json:"featureId"`
	Decision    Decision  `json:"decision"`
	Rule        Rule      `json:"rule"`
	Explanation string    `json:"explanation"`
}

// ResolutionSummary aggregates counts over all evaluated features.
type ResolutionSummary struct {
	Total   int `json:"total"`
	Enabled int `json:"enabled"`
	Blocked int `json:"blocked"`
}

// Provenance is the full explanation trail for one resolution.
type Provenance struct {
	Features map[FeatureID]ProvenanceEntry `json:"features"`
	Summary  ResolutionSummary             `json:"summary"`
}

// ResolutionResult is the Pass-1 output: the allowed tool list plus the
// provenance trail that justifies it.
type ResolutionResult struct {
	Tools      []ResolvedToolConfig `json:"tools"`
	Provenance Provenance           `json:"provenance"`
}

// AllowedToolIDs projects the result down to enabled tool ids, in result
// order.
func (r *ResolutionResult) AllowedToolIDs() []ToolID {
	ids := make([]ToolID, 0, len(r.Tools))
	for _, t := range r.Tools {
		if t.Enabled {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// AllowedFeatures returns the feature ids that resolved to allow, in
// unspecified order.
func (p *Provenance) AllowedFeatures() []FeatureID {
	var ids []FeatureID
	for id, e := range p.Features {
		if e.Decision == Allow {
			ids = append(ids, id)
		}
	}
	return ids
}
