package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/history"
	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
	"github.com/mimir-aip/eco-ontology-go/pkg/search"
	"github.com/mimir-aip/eco-ontology-go/pkg/taln"
)

// SearchHandler handles natural-language search, TALN analysis, search
// history and ontology statistics.
type SearchHandler struct {
	search   *search.Service
	analyzer search.Analyzer
	history  history.Store
	stats    *ontology.StatsService
}

// NewSearchHandler creates a new search handler. A nil analyzer answers
// /api/taln/analyze with the local tables.
func NewSearchHandler(s *search.Service, analyzer search.Analyzer, h history.Store, stats *ontology.StatsService) *SearchHandler {
	if h == nil {
		h = history.Nop{}
	}
	return &SearchHandler{search: s, analyzer: analyzer, history: h, stats: stats}
}

// Register mounts the routes under /api
func (h *SearchHandler) Register(r chi.Router) {
	r.Post("/search", h.handleKeyword)
	r.Post("/search/semantic", h.handleSemantic)
	r.Get("/search/history", h.handleHistory)
	r.Post("/taln/analyze", h.handleAnalyze)
	r.Get("/ontology-stats", h.handleOntologyStats)
}

// handleKeyword handles POST /api/search
func (h *SearchHandler) handleKeyword(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.search.Keyword(r.Context(), req.Question)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSemantic handles POST /api/search/semantic
func (h *SearchHandler) handleSemantic(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.search.Semantic(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHistory handles GET /api/search/history?limit=N
func (h *SearchHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.history.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleAnalyze handles POST /api/taln/analyze
func (h *SearchHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	var analysis *taln.Analysis
	if h.analyzer != nil {
		analysis = h.analyzer.Analyze(r.Context(), req.Question)
	} else {
		analysis = taln.Fallback(req.Question)
	}
	writeJSON(w, http.StatusOK, analysis)
}

// handleOntologyStats handles GET /api/ontology-stats
func (h *SearchHandler) handleOntologyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.OntologyStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
