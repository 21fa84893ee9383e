package sparql

import "strings"

// Namespaces of the eco-ontology dataset.
const (
	EcoNS        = "http://www.semanticweb.org/eco-ontology#"
	WebprotegeNS = "http://webprotege.stanford.edu/"
	RDFNS        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS       = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNS        = "http://www.w3.org/2001/XMLSchema#"
	OWLNS        = "http://www.w3.org/2002/07/owl#"

	BlogBase   = "http://example.org/blog/"
	ReviewBase = "http://example.org/review/"
)

var knownPrefixes = map[string]string{
	"eco":        EcoNS,
	"webprotege": WebprotegeNS,
	"rdf":        RDFNS,
	"rdfs":       RDFSNS,
	"xsd":        XSDNS,
	"owl":        OWLNS,
}

// Prologue renders PREFIX declarations for the named well-known prefixes.
// Unknown names are skipped.
func Prologue(names ...string) string {
	var sb strings.Builder
	for _, name := range names {
		ns, ok := knownPrefixes[name]
		if !ok {
			continue
		}
		sb.WriteString("PREFIX ")
		sb.WriteString(name)
		sb.WriteString(": <")
		sb.WriteString(ns)
		sb.WriteString(">\n")
	}
	return sb.String()
}
