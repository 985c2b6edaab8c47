package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/testbridge/toolgate/internal/explain"
	"github.com/testbridge/toolgate/internal/model"
)

// --- Input/Output types ---

// ResolveInput defines parameters for the toolgate_resolve tool.
type ResolveInput struct {
	Assessment model.Assessment   `json:"assessment" jsonschema:"layered assessment document (PNP, session, item rules)"`
	ItemRef    string             `json:"item_ref,omitempty" jsonschema:"item reference selecting per-item rules"`
	Context    *model.ToolContext `json:"context,omitempty" jsonschema:"content context for Pass-2 visibility filtering"`
}

// ResolveOutput contains the resolution result.
type ResolveOutput struct {
	Tools      []model.ResolvedToolConfig `json:"tools"`
	Visible    []model.ToolID             `json:"visible,omitempty"`
	Summary    model.ResolutionSummary    `json:"summary"`
	PolicyHash string                     `json:"policy_hash"`
}

// SimulateInput defines parameters for the toolgate_simulate tool.
type SimulateInput struct {
	Assessment model.Assessment            `json:"assessment" jsonschema:"layered assessment document"`
	Profile    *model.PersonalNeedsProfile `json:"profile" jsonschema:"profile to substitute wholesale; null means empty profile"`
	ItemRef    string                      `json:"item_ref,omitempty" jsonschema:"item reference selecting per-item rules"`
}

// ExplainInput defines parameters for the toolgate_explain tool.
type ExplainInput struct {
	Assessment model.Assessment `json:"assessment" jsonschema:"layered assessment document"`
	ItemRef    string           `json:"item_ref,omitempty" jsonschema:"item reference selecting per-item rules"`
}

// ExplainOutput contains the textual provenance report.
type ExplainOutput struct {
	Report  string                  `json:"report"`
	Summary model.ResolutionSummary `json:"summary"`
}

// CatalogInput is empty.
type CatalogInput struct{}

// CatalogOutput lists standardized features with categories.
type CatalogOutput struct {
	Version  string            `json:"version"`
	Features map[string]string `json:"features"`
}

// --- Handlers ---

func (s *Server) handleResolve(ctx context.Context, req *mcpsdk.CallToolRequest, input ResolveInput) (*mcpsdk.CallToolResult, ResolveOutput, error) {
	a := input.Assessment
	a.DistrictPolicy = *s.policy

	result, err := s.engine.Resolve(&a, input.ItemRef)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ResolveOutput{}, err
	}

	s.recordAudit(&a, input.ItemRef, result, false)

	out := ResolveOutput{
		Tools:      result.Tools,
		Summary:    result.Provenance.Summary,
		PolicyHash: s.policyHash,
	}
	if input.Context != nil {
		for _, d := range s.registry.FilterVisibleInContext(result.AllowedToolIDs(), *input.Context) {
			out.Visible = append(out.Visible, d.ID)
		}
	}
	return nil, out, nil
}

func (s *Server) handleSimulate(ctx context.Context, req *mcpsdk.CallToolRequest, input SimulateInput) (*mcpsdk.CallToolResult, ResolveOutput, error) {
	a := input.Assessment
	a.DistrictPolicy = *s.policy

	result, err := s.engine.ResolveWithOverride(&a, input.Profile, input.ItemRef)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ResolveOutput{}, err
	}

	s.recordAudit(&a, input.ItemRef, result, true)

	return nil, ResolveOutput{
		Tools:      result.Tools,
		Summary:    result.Provenance.Summary,
		PolicyHash: s.policyHash,
	}, nil
}

func (s *Server) handleExplain(ctx context.Context, req *mcpsdk.CallToolRequest, input ExplainInput) (*mcpsdk.CallToolResult, ExplainOutput, error) {
	a := input.Assessment
	a.DistrictPolicy = *s.policy

	result, err := s.engine.Resolve(&a, input.ItemRef)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ExplainOutput{}, err
	}

	return nil, ExplainOutput{
		Report:  explain.FormatText(result),
		Summary: result.Provenance.Summary,
	}, nil
}

func (s *Server) handleCatalog(ctx context.Context, req *mcpsdk.CallToolRequest, input CatalogInput) (*mcpsdk.CallToolResult, CatalogOutput, error) {
	features := make(map[string]string)
	for _, id := range s.catalog.Features() {
		if cat, ok := s.catalog.CategoryOf(id); ok {
			features[string(id)] = string(cat)
		}
	}
	return nil, CatalogOutput{
		Version:  s.catalog.Version(),
		Features: features,
	}, nil
}
