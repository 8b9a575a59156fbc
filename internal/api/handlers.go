// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package api

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/picky-app/picky-server/internal/lexicon"
	"github.com/picky-app/picky-server/internal/search"
	"github.com/picky-app/picky-server/internal/validation"
)

// maxQueryLength bounds the free-text prompt; longer inputs are almost
// certainly pasted noise, not a search.
const maxQueryLength = 200

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	engine *search.Engine
	lx     *lexicon.Lexicon
}

// NewHandler creates a handler backed by the given engine and lexicon.
func NewHandler(engine *search.Engine, lx *lexicon.Lexicon) *Handler {
	return &Handler{engine: engine, lx: lx}
}

// searchRequest is the validated shape of GET /api/v1/search parameters.
type searchRequest struct {
	Query string `validate:"required,max=200"`
	Limit int    `validate:"min=1,max=100"`
}

// Search handles GET /api/v1/search?q={prompt}&limit={n}.
//
// A missing or empty q is a 400; a whitespace-only q is a 200 with the
// empty envelope and no upstream calls. Only upstream collaborator failures
// produce an error status.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	raw := r.URL.Query().Get("q")
	if raw == "" {
		rw.BadRequest("q parameter is required")
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 24)
	if err != nil {
		rw.BadRequest("limit must be an integer")
		return
	}

	query := strings.TrimSpace(raw)
	if query == "" {
		// Whitespace-only prompt is a first-class empty outcome.
		resp, _ := h.engine.Search(r.Context(), "", limit)
		rw.Success(resp)
		return
	}

	req := searchRequest{Query: query, Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	resp, err := h.engine.Search(r.Context(), query, limit)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing useful to write.
			return
		}
		rw.ExternalServiceError("search", err)
		return
	}

	rw.Success(resp)
}

// resolveResponse is the payload of GET /api/v1/lexicon/resolve.
type resolveResponse struct {
	Term         string   `json:"term"`
	Found        bool     `json:"found"`
	Aliases      []string `json:"aliases,omitempty"`
	CompanyHints []string `json:"companyHints,omitempty"`
}

// LexiconResolve handles GET /api/v1/lexicon/resolve?term={t}. Absence is a
// 200 with found: false, matching the lookup contract where a miss is a
// common, valid outcome.
func (h *Handler) LexiconResolve(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		rw.BadRequest("term parameter is required")
		return
	}

	entry := h.lx.Resolve(term)
	if entry == nil {
		rw.Success(resolveResponse{Term: term, Found: false})
		return
	}

	rw.Success(resolveResponse{
		Term:         term,
		Found:        true,
		Aliases:      entry.Aliases,
		CompanyHints: entry.CompanyHints,
	})
}

// expandResponse is the payload of GET /api/v1/expand.
type expandResponse struct {
	Query    string   `json:"query"`
	Variants []string `json:"variants"`
	Tags     []string `json:"tags"`
	Keywords []string `json:"keywords"`
}

// Expand handles GET /api/v1/expand?q={prompt}. It exposes the expansion
// pipeline without issuing any upstream calls, which is useful for lexicon
// debugging and client-side tag display.
func (h *Handler) Expand(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		rw.BadRequest("q parameter is required")
		return
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		rw.BadRequest("q must be at most 200 characters")
		return
	}

	maxVariants := lexicon.DefaultMaxVariants
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > lexicon.DefaultMaxVariants {
			rw.BadRequest("max must be an integer between 1 and 6")
			return
		}
		maxVariants = n
	}

	tags := h.lx.Hits(query, lexicon.DefaultMaxHits)
	rw.Success(expandResponse{
		Query:    query,
		Variants: h.lx.ExpandQuery(query, maxVariants),
		Tags:     tags,
		Keywords: h.lx.ExpandKeywords(tags, lexicon.DefaultMaxKeywords),
	})
}

// Health handles GET /api/v1/health: a summary suitable for dashboards.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.engine == nil || h.lx == nil {
		rw.ServiceUnavailable("search engine not initialized")
		return
	}
	rw.Success(map[string]string{
		"status":  "healthy",
		"service": "picky-server",
	})
}

// HealthLive handles GET /api/v1/health/live: process liveness only.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. The server is ready as soon
// as the lexicon is built; upstream collaborators are checked lazily per
// request, so their health does not gate readiness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.engine == nil || h.lx == nil {
		rw.ServiceUnavailable("search engine not initialized")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// parseLimit parses the limit query parameter, applying the default when
// absent.
func parseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
