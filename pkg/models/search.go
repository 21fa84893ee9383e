package models

import (
	"encoding/json"
	"time"
)

// SearchRequest is the body of the keyword and semantic search endpoints
type SearchRequest struct {
	Question string `json:"question"`
	// UseTALN enables entity extraction before generation; nil means true.
	UseTALN *bool `json:"use_taln,omitempty"`
}

// WantsTALN resolves the default of UseTALN
func (r *SearchRequest) WantsTALN() bool {
	return r.UseTALN == nil || *r.UseTALN
}

// SearchResponse is returned by POST /api/search
type SearchResponse struct {
	Question    string              `json:"question"`
	SPARQLQuery string              `json:"sparql_query"`
	Template    string              `json:"template"`
	Results     []map[string]string `json:"results"`
}

// SemanticSearchResponse is returned by the LLM backed search endpoints.
// Results is the raw SPARQL JSON results document.
type SemanticSearchResponse struct {
	OriginalQuestion string          `json:"original_question"`
	GeneratedSPARQL  string          `json:"generated_sparql"`
	Strategy         string          `json:"strategy,omitempty"`
	Analysis         any             `json:"analysis,omitempty"`
	Results          json.RawMessage `json:"results"`
}

// SearchRecord is one row of the search history
type SearchRecord struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Endpoint  string    `json:"endpoint"`
	Strategy  string    `json:"strategy"`
	Query     string    `json:"query"`
	RowCount  int       `json:"row_count"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
