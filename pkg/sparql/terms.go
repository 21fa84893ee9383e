package sparql

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/knakk/rdf"
)

// ErrInvalidTerm is returned when a value cannot be used as an RDF term.
var ErrInvalidTerm = errors.New("invalid rdf term")

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// IRI validates raw as an absolute IRI and returns it in <...> form.
func IRI(raw string) (string, error) {
	if raw == "" || strings.ContainsAny(raw, "<>\"{}|^`\\") || strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q is not a valid IRI", ErrInvalidTerm, raw)
	}
	if !strings.Contains(raw, ":") {
		return "", fmt.Errorf("%w: %q is not an absolute IRI", ErrInvalidTerm, raw)
	}
	iri, err := rdf.NewIRI(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTerm, err)
	}
	return iri.Serialize(rdf.NTriples), nil
}

// MustIRI is IRI for compile-time constants.
func MustIRI(raw string) string {
	s, err := IRI(raw)
	if err != nil {
		panic(err)
	}
	return s
}

var localNamePattern = regexp.MustCompile(`^[\p{L}\p{N}_][\p{L}\p{N}_.\-]*$`)

// LocalName reports whether name can be appended to a namespace.
func LocalName(name string) bool {
	return localNamePattern.MatchString(name) && !strings.HasSuffix(name, ".")
}

// Resource turns an identifier taken from a request into an IRI term. Absolute
// IRIs are kept as they are; bare local names are resolved against base.
func Resource(idOrIRI, base string) (string, error) {
	if strings.Contains(idOrIRI, "://") || strings.HasPrefix(idOrIRI, "urn:") {
		return IRI(idOrIRI)
	}
	if !LocalName(idOrIRI) {
		return "", fmt.Errorf("%w: %q is neither an IRI nor a local name", ErrInvalidTerm, idOrIRI)
	}
	return IRI(base + idOrIRI)
}

// Eco returns the eco namespace IRI for a local name.
func Eco(local string) (string, error) {
	return Resource(local, EcoNS)
}

// Literal returns s as a plain string literal.
func Literal(s string) string {
	lit, err := rdf.NewLiteral(s)
	if err != nil {
		return `"` + literalEscaper.Replace(s) + `"`
	}
	return serializeLiteral(lit)
}

// LangLiteral returns s tagged with a language.
func LangLiteral(s, lang string) (string, error) {
	lit, err := rdf.NewLangLiteral(s, lang)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTerm, err)
	}
	return serializeLiteral(lit), nil
}

// TypedLiteral returns a literal with an explicit datatype.
func TypedLiteral(lexical, datatype string) (string, error) {
	dt, err := rdf.NewIRI(datatype)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTerm, err)
	}
	return serializeLiteral(rdf.NewTypedLiteral(lexical, dt)), nil
}

// Integer returns an xsd:integer literal.
func Integer(n int) string {
	return `"` + strconv.Itoa(n) + `"^^<` + XSDNS + `integer>`
}

// Decimal returns an xsd:decimal literal.
func Decimal(f float64) string {
	return `"` + strconv.FormatFloat(f, 'f', -1, 64) + `"^^<` + XSDNS + `decimal>`
}

// Boolean returns an xsd:boolean literal.
func Boolean(b bool) string {
	return `"` + strconv.FormatBool(b) + `"^^<` + XSDNS + `boolean>`
}

// DateTime returns an xsd:dateTime literal in UTC.
func DateTime(t time.Time) string {
	return `"` + t.UTC().Format(time.RFC3339) + `"^^<` + XSDNS + `dateTime>`
}

// Date returns an xsd:date literal.
func Date(t time.Time) string {
	return `"` + t.Format("2006-01-02") + `"^^<` + XSDNS + `date>`
}

// RegexPattern quotes s so REGEX matches it as a literal substring.
func RegexPattern(s string) string {
	return Literal(regexp.QuoteMeta(s))
}

func serializeLiteral(lit rdf.Literal) string {
	quoted := `"` + literalEscaper.Replace(lit.String()) + `"`
	if lang := lit.Lang(); lang != "" {
		return quoted + "@" + lang
	}
	dt := lit.DataType.String()
	if dt == "" || dt == XSDNS+"string" || dt == RDFNS+"langString" {
		return quoted
	}
	return quoted + "^^<" + dt + ">"
}
