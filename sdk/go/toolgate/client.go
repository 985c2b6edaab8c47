package toolgate

import (
	"fmt"

	"github.com/testbridge/toolgate/internal/assessment"
	"github.com/testbridge/toolgate/internal/audit"
	"github.com/testbridge/toolgate/internal/catalog"
	"github.com/testbridge/toolgate/internal/explain"
	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
	"github.com/testbridge/toolgate/internal/resolve"
)

// Client holds the resolution pipeline. Safe for concurrent use once
// constructed: the registry index and district policy are read-only after
// New returns.
type Client struct {
	engine     *resolve.Engine
	registry   *registry.Registry
	catalog    *catalog.Catalog
	policy     *model.DistrictPolicy
	policyHash string
	auditLog   *audit.Log
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	cat, err := catalog.Load(cfg.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("toolgate: failed to load feature catalog: %w", err)
	}

	reg := cfg.registry
	if reg == nil {
		reg = registry.NewDefault()
	}

	var engineOpts []resolve.Option
	if cfg.unknownTool != nil {
		hook := cfg.unknownTool
		engineOpts = append(engineOpts, resolve.WithUnknownToolHook(func(err *registry.UnknownToolReferenceError) {
			hook(string(err.FeatureID), string(err.ToolID))
		}))
	}

	c := &Client{
		engine:   resolve.New(reg, engineOpts...),
		registry: reg,
		catalog:  cat,
	}

	if cfg.policyPath != "" {
		policy, hash, err := assessment.LoadDistrictPolicyWithHash(cfg.policyPath)
		if err != nil {
			return nil, fmt.Errorf("toolgate: failed to load district policy: %w", err)
		}
		c.policy = policy
		c.policyHash = hash
	}

	if cfg.auditLogPath != "" {
		log, err := audit.Open(cfg.auditLogPath)
		if err != nil {
			return nil, fmt.Errorf("toolgate: failed to open audit log: %w", err)
		}
		c.auditLog = log
	}

	return c, nil
}

// Close releases the audit log if one is configured.
func (c *Client) Close() error {
	if c.auditLog != nil {
		return c.auditLog.Close()
	}
	return nil
}

// Resolve is the production entry point: the profile comes from the
// assessment's personal needs profile.
func (c *Client) Resolve(a *model.Assessment, itemRef string) (*model.ResolutionResult, error) {
	eff := c.effective(a)
	result, err := c.engine.Resolve(eff, itemRef)
	if err != nil {
		return nil, err
	}
	c.recordAudit(eff, itemRef, result, false)
	return result, nil
}

// ResolveWithOverride substitutes a caller-supplied profile (nil means
// empty) for the stored one. The stored assessment is never mutated.
func (c *Client) ResolveWithOverride(a *model.Assessment, override *model.PersonalNeedsProfile, itemRef string) (*model.ResolutionResult, error) {
	eff := c.effective(a)
	result, err := c.engine.ResolveWithOverride(eff, override, itemRef)
	if err != nil {
		return nil, err
	}
	c.recordAudit(eff, itemRef, result, true)
	return result, nil
}

// AllowedToolIDs is the ids-only projection of Resolve.
func (c *Client) AllowedToolIDs(a *model.Assessment, itemRef string) ([]model.ToolID, error) {
	result, err := c.Resolve(a, itemRef)
	if err != nil {
		return nil, err
	}
	return result.AllowedToolIDs(), nil
}

// VisibleTools runs Pass 2: context filtering of an allowed-id list. The
// output is always a subset of allowedIDs.
func (c *Client) VisibleTools(allowedIDs []model.ToolID, ctx model.ToolContext) []*registry.ToolDescriptor {
	return c.registry.FilterVisibleInContext(allowedIDs, ctx)
}

// Explain renders a resolution result as a human-readable report.
func (c *Client) Explain(result *model.ResolutionResult) string {
	return explain.FormatText(result)
}

// Catalog returns the feature catalog the client was built with.
func (c *Client) Catalog() *catalog.Catalog { return c.catalog }

// effective applies the client-level district policy, when configured,
// over a copy of the assessment. The caller's document is left untouched.
func (c *Client) effective(a *model.Assessment) *model.Assessment {
	if c.policy == nil {
		return a
	}
	copied := *a
	copied.DistrictPolicy = *c.policy
	return &copied
}

func (c *Client) recordAudit(a *model.Assessment, itemRef string, result *model.ResolutionResult, simulated bool) {
	if c.auditLog == nil {
		return
	}
	sum := result.Provenance.Summary
	_ = c.auditLog.Record(audit.Entry{
		AssessmentID: a.ID,
		ItemRef:      itemRef,
		SessionMode:  string(a.Session.Mode),
		Simulated:    simulated,
		Total:        sum.Total,
		Enabled:      sum.Enabled,
		Blocked:      sum.Blocked,
		PolicyHash:   c.policyHash,
	})
}
