package sparql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRI(t *testing.T) {
	iri, err := IRI("http://www.semanticweb.org/eco-ontology#Event1")
	require.NoError(t, err)
	assert.Equal(t, "<http://www.semanticweb.org/eco-ontology#Event1>", iri)

	for _, bad := range []string{
		"",
		"not-absolute",
		"http://example.org/a>b",
		"http://example.org/a b",
		"http://example.org/{x}",
		`http://example.org/"`,
	} {
		_, err := IRI(bad)
		assert.ErrorIs(t, err, ErrInvalidTerm, bad)
	}
}

func TestResource(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		base    string
		want    string
		wantErr bool
	}{
		{"local name", "Event1", EcoNS, "<" + EcoNS + "Event1>", false},
		{"uuid under blog base", "0b6c1b36-5a49-4a57-9a55-7f2b6f7d1c11", BlogBase, "<" + BlogBase + "0b6c1b36-5a49-4a57-9a55-7f2b6f7d1c11>", false},
		{"absolute iri", "http://example.org/blog/abc", EcoNS, "<http://example.org/blog/abc>", false},
		{"injection attempt", "x> . } DROP ALL #", EcoNS, "", true},
		{"trailing dot", "abc.", EcoNS, "", true},
		{"empty", "", EcoNS, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resource(tt.id, tt.base)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTerm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiteralEscapesHostileInput(t *testing.T) {
	hostile := []string{
		`plain`,
		`quote " inside`,
		`"} . ?s ?p ?o . FILTER("`,
		"line\nbreak\tand tab",
		`back\slash`,
		`> . } DROP ALL`,
	}

	for _, s := range hostile {
		lit := Literal(s)
		q := "SELECT ?s WHERE { ?s ?p " + lit + " . }"

		parsed, err := Parse(q)
		require.NoError(t, err, lit)
		assert.Equal(t, []string{"s", "p"}, parsed.Variables, "literal %s leaked into the pattern", lit)
	}
}

func TestLiteralForms(t *testing.T) {
	assert.Equal(t, `"a\"b"`, Literal(`a"b`))
	assert.Equal(t, `"x\\y"`, Literal(`x\y`))

	fr, err := LangLiteral("bonjour", "fr")
	require.NoError(t, err)
	assert.Equal(t, `"bonjour"@fr`, fr)

	assert.Equal(t, `"42"^^<`+XSDNS+`integer>`, Integer(42))
	assert.Equal(t, `"12.5"^^<`+XSDNS+`decimal>`, Decimal(12.5))
	assert.Equal(t, `"true"^^<`+XSDNS+`boolean>`, Boolean(true))

	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, `"2024-05-01T10:30:00Z"^^<`+XSDNS+`dateTime>`, DateTime(ts))
	assert.Equal(t, `"2024-05-01"^^<`+XSDNS+`date>`, Date(ts))

	typed, err := TypedLiteral("7", XSDNS+"int")
	require.NoError(t, err)
	assert.Equal(t, `"7"^^<`+XSDNS+`int>`, typed)
}

func TestRegexPattern(t *testing.T) {
	assert.Equal(t, `"a\\.b\\*"`, RegexPattern("a.b*"))

	q := `SELECT ?s WHERE { ?s ?p ?o FILTER(REGEX(?o, ` + RegexPattern(`") || true || ("`) + `, "i")) }`
	_, err := Parse(q)
	assert.NoError(t, err)
}

func TestLocalName(t *testing.T) {
	assert.True(t, LocalName("CleanupCampaign"))
	assert.True(t, LocalName("event-2024.01"))
	assert.False(t, LocalName("a b"))
	assert.False(t, LocalName("a>b"))
	assert.False(t, LocalName("-lead"))
}
