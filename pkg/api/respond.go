package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
	"github.com/mimir-aip/eco-ontology-go/pkg/search"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}

func writeRawJSON(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors onto status codes: caller mistakes
// are 400, missing subjects 404, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ontology.ErrInvalidInput), errors.Is(err, sparql.ErrInvalidTerm):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ontology.ErrInvalidInput.Error()+": "))
	case errors.Is(err, search.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "Question is required")
	case errors.Is(err, ontology.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, search.ErrGeneratorUnavailable):
		writeError(w, http.StatusInternalServerError, "Gemini service not available")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeRows answers a list of flattened rows; a nil list is sent as [].
func writeRows(w http.ResponseWriter, rows []sparql.Row, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rows == nil {
		rows = []sparql.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeRow answers a single resource; a missing one is sent as {}.
func writeRow(w http.ResponseWriter, row sparql.Row, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if row == nil {
		row = sparql.Row{}
	}
	writeJSON(w, http.StatusOK, row)
}

// writeResults answers the SPARQL JSON document as is
func writeResults(w http.ResponseWriter, res *sparql.Results, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, res.JSON())
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	return false
}

// pathParam returns a URL-unescaped chi path parameter, so that absolute
// IRIs can be passed escaped in a single segment.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
