package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

func TestFallbackQueryIsValid(t *testing.T) {
	require.NoError(t, sparql.Check(FallbackQuery))
}

func TestGeneratorFallsBackOnAPIError(t *testing.T) {
	client := NewFailingLLMClient(errors.New("quota exceeded"))
	g := NewGenerator(client, nil)

	gen := g.FromQuestion(context.Background(), "Quels événements à Paris ?")
	assert.Equal(t, FallbackQuery, gen.Query)
	assert.Equal(t, StrategyFallback, gen.Strategy)
	assert.ErrorContains(t, gen.Err, "quota exceeded")
}

func TestGeneratorWithoutClient(t *testing.T) {
	g := NewGenerator(nil, nil)
	assert.False(t, g.Configured())

	gen := g.FromAnalysis(context.Background(), "q", "QUESTION: q")
	assert.Equal(t, FallbackQuery, gen.Query)
	assert.ErrorIs(t, gen.Err, ErrNotConfigured)
}

func TestGeneratorSendsSamplingParameters(t *testing.T) {
	client := NewMockLLMClient("SELECT ?e WHERE { ?e a eco:Event . } LIMIT 5")
	g := NewGenerator(client, nil)

	gen := g.FromQuestion(context.Background(), "events")
	assert.Equal(t, StrategyLLM, gen.Strategy)
	assert.Equal(t, "mock-model", gen.Model)
	assert.NoError(t, gen.Err)

	g.FromAnalysis(context.Background(), "events", "QUESTION: events\nINTENT: list - list")

	reqs := client.Requests()
	require.Len(t, reqs, 2)
	assert.InDelta(t, 0.1, reqs[0].Temperature, 1e-6)
	assert.InDelta(t, 0.8, reqs[0].TopP, 1e-6)
	assert.EqualValues(t, 40, reqs[0].TopK)
	assert.EqualValues(t, 1000, reqs[0].MaxTokens)
	assert.Contains(t, reqs[0].Messages[0].Content, `QUESTION: "events"`)

	assert.EqualValues(t, 1200, reqs[1].MaxTokens)
	assert.Contains(t, reqs[1].Messages[0].Content, "STRUCTURED ANALYSIS:\nQUESTION: events\nINTENT: list - list")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		response string
		contains []string
		excludes []string
		wantErr  error
	}{
		{
			name: "fences and prose are dropped",
			response: "Here is the query you asked for:\n```sparql\n" +
				"SELECT ?title WHERE {\n  ?e a eco:Event ;\n     eco:eventTitle ?title .\n}\n```\nHope it helps",
			contains: []string{"PREFIX eco: <http://www.semanticweb.org/eco-ontology#>\nSELECT ?title", "LIMIT 50"},
			excludes: []string{"```", "Here is", "Hope"},
		},
		{
			name:     "existing limit is kept",
			response: "PREFIX eco: <http://www.semanticweb.org/eco-ontology#>\nSELECT ?e WHERE { ?e a eco:Event . }\nLIMIT 10",
			contains: []string{"LIMIT 10"},
			excludes: []string{"LIMIT 50"},
		},
		{
			name: "limit goes before a trailing values block",
			response: "SELECT ?e ?status WHERE { ?e a eco:Campaign ; eco:campaignStatus ?status . }\n" +
				"VALUES ?status { \"active\" \"en cours\" }",
			contains: []string{"eco:campaignStatus ?status . }\nLIMIT 50\nVALUES ?status"},
		},
		{
			name: "fragile location patterns become optional",
			response: "SELECT ?title ?locationName ?city WHERE {\n" +
				"  ?e eco:eventTitle ?title ;\n     eco:isLocatedAt ?location .\n" +
				"  ?location eco:locationName ?locationName .\n" +
				"  ?location eco:city ?city .\n}",
			contains: []string{
				"  OPTIONAL { ?location eco:locationName ?locationName . }",
				"  OPTIONAL { ?location eco:city ?city . }",
			},
		},
		{
			name: "patterns already optional are left alone",
			response: "SELECT ?city WHERE {\n  ?e eco:isLocatedAt ?location .\n  OPTIONAL {\n" +
				"    ?location eco:city ?city .\n  }\n}",
			contains: []string{"    ?location eco:city ?city ."},
			excludes: []string{"OPTIONAL { ?location"},
		},
		{
			name: "donations are widened and made distinct",
			response: "SELECT ?donation ?amount WHERE {\n  ?donation a eco:FinancialDonation .\n" +
				"  ?donation eco:donationType ?kind .\n  ?donation eco:amount ?amount .\n}",
			contains: []string{
				"SELECT DISTINCT ?donation",
				"{ ?donation a eco:FinancialDonation . } UNION { ?donation a eco:Donation . }",
				"OPTIONAL { ?donation eco:donationType ?kind . }",
			},
		},
		{
			name:     "webprotege prefix is declared when used",
			response: "SELECT ?v WHERE { ?v a webprotege:RCXXzqv27uFuX5nYU81XUvw . }",
			contains: []string{"PREFIX webprotege: <http://webprotege.stanford.edu/>"},
		},
		{
			name:     "QUESTION lines are dropped",
			response: "SELECT ?e\nQUESTION: what?\nWHERE { ?e a eco:Event . }",
			excludes: []string{"QUESTION"},
		},
		{
			name:     "no select",
			response: "I cannot answer that.",
			wantErr:  ErrNoSelect,
		},
		{
			name:     "ask is rejected",
			response: "ASK { ?e a eco:Event . }",
			wantErr:  ErrNoSelect,
		},
		{
			name:     "broken syntax",
			response: "SELECT ?e WHERE { ?e a eco:Event ",
			wantErr:  sparql.ErrSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Clean(tt.response)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, q, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, q, unwanted)
			}
			assert.NoError(t, sparql.Check(q))
		})
	}
}

func TestGeneratorFallsBackOnUnparsableAnswer(t *testing.T) {
	g := NewGenerator(NewMockLLMClient("SELECT ?x WHERE { ?x a } }"), nil)
	gen := g.FromQuestion(context.Background(), "anything")
	assert.Equal(t, FallbackQuery, gen.Query)
	assert.Equal(t, "mock-model", gen.Model)
	assert.ErrorIs(t, gen.Err, sparql.ErrSyntax)
}

func TestPromptSections(t *testing.T) {
	p := Prompt{Schema: DefaultSchema, Question: "Quelles campagnes ?"}.String()

	for _, section := range []string{"ONTOLOGY CONTEXT:", "MAIN CLASSES:", "EVENT PROPERTIES:", "IMPORTANT QUERY PATTERNS:", "CRITICAL RULES:"} {
		assert.Contains(t, p, section)
	}
	assert.Contains(t, p, "Prefix: eco: <http://www.semanticweb.org/eco-ontology#>")
	assert.True(t, strings.HasSuffix(p, "SPARQL QUERY:"))
	assert.NotContains(t, p, "STRUCTURED ANALYSIS")
}
