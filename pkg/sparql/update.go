package sparql

import (
	"strings"
)

// Triple holds three already-serialized terms (IRIs, prefixed names,
// variables or literals produced by this package).
type Triple struct {
	S, P, O string
}

func (t Triple) String() string {
	return t.S + " " + t.P + " " + t.O + " ."
}

// InsertData renders an INSERT DATA request.
func InsertData(prefixes string, triples []Triple) string {
	var sb strings.Builder
	sb.WriteString(prefixes)
	sb.WriteString("INSERT DATA {\n")
	writeTriples(&sb, triples)
	sb.WriteString("}\n")
	return sb.String()
}

// Modify describes a single DELETE/INSERT/WHERE request. Both halves are
// applied by the store in one operation.
type Modify struct {
	Prefixes string
	Delete   []Triple
	Insert   []Triple
	// Where holds the required patterns; Optional patterns are each wrapped
	// in their own OPTIONAL block so a missing value does not drop the
	// whole solution.
	Where    []Triple
	Optional []Triple
}

// String renders the update request.
func (m Modify) String() string {
	var sb strings.Builder
	sb.WriteString(m.Prefixes)
	if len(m.Delete) > 0 {
		sb.WriteString("DELETE {\n")
		writeTriples(&sb, m.Delete)
		sb.WriteString("}\n")
	}
	if len(m.Insert) > 0 {
		sb.WriteString("INSERT {\n")
		writeTriples(&sb, m.Insert)
		sb.WriteString("}\n")
	}
	sb.WriteString("WHERE {\n")
	writeTriples(&sb, m.Where)
	for _, t := range m.Optional {
		sb.WriteString("  OPTIONAL { ")
		sb.WriteString(t.String())
		sb.WriteString(" }\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func writeTriples(sb *strings.Builder, triples []Triple) {
	for _, t := range triples {
		sb.WriteString("  ")
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
}
