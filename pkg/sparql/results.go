package sparql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/knakk/rdf"
	ksparql "github.com/knakk/sparql"
)

// Row is one flattened result binding: variable name to simplified value.
type Row map[string]string

// Results holds the outcome of a read query.
type Results struct {
	Vars    []string
	Rows    []Row
	Boolean *bool
	Raw     json.RawMessage
}

// rawResults mirrors the SPARQL 1.1 Query Results JSON document.
type rawResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]struct {
			Type     string `json:"type"`
			Value    string `json:"value"`
			Datatype string `json:"datatype,omitempty"`
			Lang     string `json:"xml:lang,omitempty"`
		} `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean,omitempty"`
}

// DecodeResults parses a SPARQL JSON results document and flattens every
// binding with Flatten.
func DecodeResults(body []byte) (*Results, error) {
	var raw rawResults
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse query results: %w", err)
	}

	res := &Results{
		Vars:    raw.Head.Vars,
		Rows:    make([]Row, 0, len(raw.Results.Bindings)),
		Boolean: raw.Boolean,
		Raw:     json.RawMessage(body),
	}
	if raw.Boolean != nil {
		return res, nil
	}

	// Solutions is index aligned with the raw bindings but omits terms the
	// RDF library refuses (odd IRIs, multi-part language tags). Those still
	// carry a usable lexical value.
	var solutions []map[string]rdf.Term
	if parsed, err := ksparql.ParseJSON(bytes.NewReader(body)); err == nil {
		solutions = parsed.Solutions()
	}

	for i, binding := range raw.Results.Bindings {
		row := make(Row, len(binding))
		for name, v := range binding {
			value := v.Value
			if i < len(solutions) {
				if term, ok := solutions[i][name]; ok && term != nil {
					value = term.String()
				}
			}
			row[name] = Flatten(value)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// Flatten reduces an IRI or literal to its trailing fragment: the part after
// the last '#', otherwise after the last '/', otherwise the value itself.
func Flatten(value string) string {
	if i := strings.LastIndex(value, "#"); i >= 0 {
		return value[i+1:]
	}
	if i := strings.LastIndex(value, "/"); i >= 0 {
		return value[i+1:]
	}
	return value
}

// First returns the first row, or an empty row when there is none.
func (r *Results) First() Row {
	if r == nil || len(r.Rows) == 0 {
		return Row{}
	}
	return r.Rows[0]
}

// JSON returns the SPARQL JSON results document. Results built in memory,
// without a response body, are rendered with every value as a literal.
func (r *Results) JSON() json.RawMessage {
	if r == nil {
		return json.RawMessage(`{"head":{"vars":[]},"results":{"bindings":[]}}`)
	}
	if len(r.Raw) > 0 {
		return r.Raw
	}

	type value struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	doc := struct {
		Head struct {
			Vars []string `json:"vars"`
		} `json:"head"`
		Results *struct {
			Bindings []map[string]value `json:"bindings"`
		} `json:"results,omitempty"`
		Boolean *bool `json:"boolean,omitempty"`
	}{Boolean: r.Boolean}
	doc.Head.Vars = r.Vars
	if doc.Head.Vars == nil {
		doc.Head.Vars = []string{}
	}
	if r.Boolean == nil {
		doc.Results = &struct {
			Bindings []map[string]value `json:"bindings"`
		}{Bindings: make([]map[string]value, 0, len(r.Rows))}
		for _, row := range r.Rows {
			b := make(map[string]value, len(row))
			for k, v := range row {
				b[k] = value{Type: "literal", Value: v}
			}
			doc.Results.Bindings = append(doc.Results.Bindings, b)
		}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return json.RawMessage(`{"head":{"vars":[]},"results":{"bindings":[]}}`)
	}
	return body
}

// Maps returns the rows as plain string maps
func (r *Results) Maps() []map[string]string {
	if r == nil {
		return []map[string]string{}
	}
	out := make([]map[string]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row
	}
	return out
}
