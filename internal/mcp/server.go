// Package mcp exposes the resolution engine over the Model Context
// Protocol, so agent-side assessment tooling can ask which accessibility
// tools a student gets and why.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/testbridge/toolgate/internal/assessment"
	"github.com/testbridge/toolgate/internal/audit"
	"github.com/testbridge/toolgate/internal/catalog"
	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
	"github.com/testbridge/toolgate/internal/resolve"
)

// Config holds MCP server configuration.
type Config struct {
	PolicyPath   string
	CatalogPath  string
	AuditLogPath string
}

// Server wraps the MCP SDK server around the resolution engine.
type Server struct {
	mcpServer  *mcpsdk.Server
	engine     *resolve.Engine
	registry   *registry.Registry
	catalog    *catalog.Catalog
	policy     *model.DistrictPolicy
	policyHash string
	auditLog   *audit.Log
}

// New creates an MCP server with loaded district policy and catalog.
func New(cfg Config) (*Server, error) {
	policy, policyHash, err := assessment.LoadDistrictPolicyWithHash(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load district policy: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load feature catalog: %w", err)
	}

	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
	}

	reg := registry.NewDefault()
	s := &Server{
		engine:     resolve.New(reg),
		registry:   reg,
		catalog:    cat,
		policy:     policy,
		policyHash: policyHash,
		auditLog:   auditLog,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "toolgate",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit log if configured.
func (s *Server) Close() error {
	if s.auditLog != nil {
		return s.auditLog.Close()
	}
	return nil
}

func (s *Server) recordAudit(a *model.Assessment, itemRef string, result *model.ResolutionResult, simulated bool) {
	if s.auditLog == nil {
		return
	}
	sum := result.Provenance.Summary
	_ = s.auditLog.Record(audit.Entry{
		AssessmentID: a.ID,
		ItemRef:      itemRef,
		SessionMode:  string(a.Session.Mode),
		Simulated:    simulated,
		Total:        sum.Total,
		Enabled:      sum.Enabled,
		Blocked:      sum.Blocked,
		PolicyHash:   s.policyHash,
	})
}

// registerTools adds all toolgate tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toolgate_resolve",
		Description: "Resolve which accessibility tools a student gets for an assessment, with per-feature provenance.",
	}, s.handleResolve)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toolgate_simulate",
		Description: "Resolve with a substituted student profile (what-if analysis). Stored profiles are never modified.",
	}, s.handleSimulate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toolgate_explain",
		Description: "Resolve and return a human-readable report of why each feature was allowed or blocked.",
	}, s.handleExplain)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toolgate_catalog",
		Description: "List the standardized accessibility feature identifiers and their categories.",
	}, s.handleCatalog)
}
