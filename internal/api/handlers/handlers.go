// Package handlers implements the HTTP handlers of the status code teacher:
// the REST explain and catalog endpoints, health, the agent card and the A2A
// JSON-RPC endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/a2a"
	"github.com/statusteacher/statusteacher/internal/catalog"
	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/internal/explain"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Config  *config.Config
	Explain *explain.Service
	Catalog *catalog.Catalog
	A2A     *a2a.Handler
}

// New creates a Handlers instance.
func New(cfg *config.Config, svc *explain.Service, cat *catalog.Catalog) *Handlers {
	return &Handlers{
		Config:  cfg,
		Explain: svc,
		Catalog: cat,
		A2A:     a2a.NewHandler(svc),
	}
}

// ── Explanations ─────────────────────────────────────────────

// ExplainCode serves GET /api/v1/explain?code={int}.
func (h *Handlers) ExplainCode(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("code"))
	if raw == "" {
		respondError(w, http.StatusBadRequest, "missing required query parameter: code")
		return
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "code must be an integer")
		return
	}

	expl, err := h.Explain.Explain(r.Context(), code)
	if err != nil {
		if errors.Is(err, explain.ErrInvalidStatusCode) {
			respondError(w, http.StatusBadRequest, explain.ErrInvalidStatusCode.Error())
			return
		}
		log.Error().Err(err).Int("code", code).Msg("Explain failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"explanation": expl,
	})
}

// ListCodes serves GET /api/v1/codes?category={1xx..5xx}.
func (h *Handlers) ListCodes(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	codes, err := h.Catalog.List(category)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			respondError(w, http.StatusBadRequest, catalog.ErrUnknownCategory.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if category == "" {
		category = "all"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"category": strings.ToLower(strings.TrimSpace(category)),
		"count":    len(codes),
		"codes":    codes,
	})
}

// ── Health & discovery ───────────────────────────────────────

// Health serves GET /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:    "healthy",
		Service:   h.Config.Agent.ID,
		Version:   h.Config.Version,
		Provider:  h.Explain.ProviderName(),
		Cache:     h.Explain.CacheKind(),
		Timestamp: time.Now().UTC(),
	})
}

// AgentCard serves GET /.well-known/agent.json.
func (h *Handlers) AgentCard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a2a.BuildAgentCard(h.Config, baseURL(r)))
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

// ── A2A ──────────────────────────────────────────────────────

// A2AEndpoint serves POST /api/v1/a2a/status-code-teacher. The HTTP status
// is always 200; failures are JSON-RPC error envelopes.
func (h *Handlers) A2AEndpoint(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, a2a.MaxBodyBytes+1))
	var resp a2a.Response
	switch {
	case err != nil:
		resp = a2a.NewErrorResponse(nil, a2a.CodeParseError, "Parse error", "could not read request body")
	case len(body) > a2a.MaxBodyBytes:
		resp = a2a.NewErrorResponse(nil, a2a.CodeInvalidRequest, "Invalid Request", "request body exceeds 1 MiB")
	default:
		resp = h.A2A.Handle(r.Context(), body)
	}
	respondJSON(w, http.StatusOK, resp)
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
