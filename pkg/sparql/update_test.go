package sparql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertData(t *testing.T) {
	subject := MustIRI(BlogBase + "b1")
	got := InsertData(Prologue("eco"), []Triple{
		{S: subject, P: "a", O: "eco:Blog"},
		{S: subject, P: "eco:title", O: Literal(`Hello "world"`)},
	})

	assert.True(t, strings.HasPrefix(got, "PREFIX eco: <"+EcoNS+">\nINSERT DATA {\n"))
	assert.Contains(t, got, "<http://example.org/blog/b1> a eco:Blog .")
	assert.Contains(t, got, `<http://example.org/blog/b1> eco:title "Hello \"world\"" .`)
	assert.True(t, strings.HasSuffix(got, "}\n"))
}

func TestModifyRendersSingleRequest(t *testing.T) {
	subject := MustIRI(BlogBase + "b1")
	m := Modify{
		Prefixes: Prologue("eco"),
		Delete:   []Triple{{S: subject, P: "eco:title", O: "?oldTitle"}},
		Insert:   []Triple{{S: subject, P: "eco:title", O: Literal("New")}},
		Where:    []Triple{{S: subject, P: "a", O: "eco:Blog"}},
		Optional: []Triple{{S: subject, P: "eco:title", O: "?oldTitle"}},
	}
	got := m.String()

	assert.Equal(t, 1, strings.Count(got, "DELETE {"))
	assert.Equal(t, 1, strings.Count(got, "INSERT {"))
	assert.Equal(t, 1, strings.Count(got, "WHERE {"))
	assert.Contains(t, got, "OPTIONAL { <http://example.org/blog/b1> eco:title ?oldTitle . }")
	assert.Less(t, strings.Index(got, "DELETE"), strings.Index(got, "INSERT"))
	assert.Less(t, strings.Index(got, "INSERT"), strings.Index(got, "WHERE"))
}

func TestModifyDeleteOnly(t *testing.T) {
	subject := MustIRI(BlogBase + "b1")
	got := Modify{
		Delete: []Triple{{S: subject, P: "?p", O: "?o"}},
		Where:  []Triple{{S: subject, P: "?p", O: "?o"}},
	}.String()

	assert.NotContains(t, got, "INSERT")
	assert.Equal(t, "DELETE {\n  <http://example.org/blog/b1> ?p ?o .\n}\nWHERE {\n  <http://example.org/blog/b1> ?p ?o .\n}\n", got)
}
