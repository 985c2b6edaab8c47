// Package server exposes resolution over a JSON HTTP API. The server owns
// the institutional layer: the district policy file it loads (and
// hot-reloads) replaces whatever district policy a request carries, so
// clients cannot weaken institutional vetoes.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/testbridge/toolgate/internal/assessment"
	"github.com/testbridge/toolgate/internal/audit"
	"github.com/testbridge/toolgate/internal/catalog"
	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
	"github.com/testbridge/toolgate/internal/resolve"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr         string
	PolicyPath   string
	CatalogPath  string
	AuditLogPath string
}

// Server serves resolution requests against a shared registry and the
// district policy currently on disk.
type Server struct {
	mu         sync.RWMutex
	policy     *model.DistrictPolicy
	policyHash string

	registry *registry.Registry
	catalog  *catalog.Catalog
	engine   *resolve.Engine
	auditLog *audit.Log
	cfg      Config
	mux      *http.ServeMux
}

// New creates a server with loaded district policy and catalog and the
// default tool registry.
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
		policy:     policy,
		policyHash: policyHash,
		registry:   reg,
		catalog:    cat,
		engine:     resolve.New(reg),
		auditLog:   auditLog,
		cfg:        cfg,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /v1/resolve", s.handleResolve)
	s.mux.HandleFunc("POST /v1/simulate", s.handleSimulate)
	s.mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s, nil
}

// Handler returns the HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the HTTP server on the configured address. Blocks.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Close cleans up resources.
func (s *Server) Close() error {
	if s.auditLog != nil {
		return s.auditLog.Close()
	}
	return nil
}

// ReloadPolicy atomically swaps the district policy from disk. Called by
// the hot-reloader on file change.
func (s *Server) ReloadPolicy() error {
	policy, policyHash, err := assessment.LoadDistrictPolicyWithHash(s.cfg.PolicyPath)
	if err != nil {
		return fmt.Errorf("failed to reload district policy: %w", err)
	}

	s.mu.Lock()
	s.policy = policy
	s.policyHash = policyHash
	s.mu.Unlock()

	return nil
}

// resolveRequest is the request body for /v1/resolve and /v1/simulate.
type resolveRequest struct {
	Assessment      model.Assessment            `json:"assessment"`
	OverrideProfile *model.PersonalNeedsProfile `json:"overrideProfile,omitempty"`
	ItemRef         string                      `json:"itemRef,omitempty"`
	Context         *model.ToolContext          `json:"context,omitempty"`
}

// resolveResponse wraps the resolution result with the policy version that
// produced it. Visible is present only when the request carried a content
// context.
type resolveResponse struct {
	Result     *model.ResolutionResult `json:"result"`
	Visible    []model.ToolID          `json:"visible,omitempty"`
	PolicyHash string                  `json:"policyHash"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	s.serveResolution(w, r, false)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	s.serveResolution(w, r, true)
}

func (s *Server) serveResolution(w http.ResponseWriter, r *http.Request, simulate bool) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.mu.RLock()
	policy := *s.policy
	policyHash := s.policyHash
	s.mu.RUnlock()

	// The server's district policy is authoritative.
	a := req.Assessment
	a.DistrictPolicy = policy

	var result *model.ResolutionResult
	var err error
	if simulate {
		result, err = s.engine.ResolveWithOverride(&a, req.OverrideProfile, req.ItemRef)
	} else {
		result, err = s.engine.Resolve(&a, req.ItemRef)
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.recordAudit(&a, req.ItemRef, result, policyHash, simulate)

	resp := resolveResponse{Result: result, PolicyHash: policyHash}
	if req.Context != nil {
		for _, d := range s.registry.FilterVisibleInContext(result.AllowedToolIDs(), *req.Context) {
			resp.Visible = append(resp.Visible, d.ID)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// catalogResponse lists the standardized features with categories.
type catalogResponse struct {
	Version  string            `json:"version"`
	Features map[string]string `json:"features"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	features := make(map[string]string)
	for _, id := range s.catalog.Features() {
		if cat, ok := s.catalog.CategoryOf(id); ok {
			features[string(id)] = string(cat)
		}
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Version:  s.catalog.Version(),
		Features: features,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	hash := s.policyHash
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"policy_hash": hash,
	})
}

func (s *Server) recordAudit(a *model.Assessment, itemRef string, result *model.ResolutionResult, policyHash string, simulated bool) {
	if s.auditLog == nil {
		return
	}
	sum := result.Provenance.Summary
	// Audit failures must not fail the resolution response.
	_ = s.auditLog.Record(audit.Entry{
		AssessmentID: a.ID,
		ItemRef:      itemRef,
		SessionMode:  string(a.Session.Mode),
		Simulated:    simulated,
		Total:        sum.Total,
		Enabled:      sum.Enabled,
		Blocked:      sum.Blocked,
		PolicyHash:   policyHash,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
