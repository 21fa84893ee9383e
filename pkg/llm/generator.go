package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// FallbackQuery is returned whenever a usable query cannot be generated.
const FallbackQuery = `PREFIX eco: <http://www.semanticweb.org/eco-ontology#>
SELECT ?item ?name ?type
WHERE {
    {
        ?item a eco:Event ;
              eco:eventTitle ?name .
        BIND("Event" AS ?type)
    }
    UNION
    {
        ?item a eco:Location ;
              eco:locationName ?name .
        BIND("Location" AS ?type)
    }
}
ORDER BY ?type ?name
LIMIT 20`

const (
	StrategyLLM      = "llm"
	StrategyFallback = "fallback"
)

const (
	questionMaxTokens = 1000
	analysisMaxTokens = 1200
	defaultLimit      = 50
)

// ErrNoSelect is reported when the model answered with something other than
// a SELECT query.
var ErrNoSelect = errors.New("response contains no SELECT query")

// Generation is the outcome of one generation. Err records why the fallback
// was used; it is never returned to callers as a failure.
type Generation struct {
	Query    string `json:"query"`
	Strategy string `json:"strategy"`
	Model    string `json:"model,omitempty"`
	Err      error  `json:"-"`
}

// Generator turns questions into SPARQL through an LLM.
type Generator struct {
	client LLMClient
	schema Schema
	logger *slog.Logger
}

// NewGenerator creates a generator. A nil client makes every generation
// fall back.
func NewGenerator(client LLMClient, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, schema: DefaultSchema, logger: logger}
}

// Configured reports whether a model is available
func (g *Generator) Configured() bool {
	return g.client != nil
}

// FromQuestion generates a query from the raw question
func (g *Generator) FromQuestion(ctx context.Context, question string) Generation {
	return g.generate(ctx, Prompt{Schema: g.schema, Question: question}, questionMaxTokens)
}

// FromAnalysis generates a query from a structured analysis of the
// question, as rendered by the TALN stage.
func (g *Generator) FromAnalysis(ctx context.Context, question, structuredContext string) Generation {
	if strings.TrimSpace(structuredContext) == "" {
		return g.FromQuestion(ctx, question)
	}
	return g.generate(ctx, Prompt{Schema: g.schema, Question: question, Context: structuredContext}, analysisMaxTokens)
}

func (g *Generator) generate(ctx context.Context, prompt Prompt, maxTokens int32) Generation {
	if g.client == nil {
		return g.fallback(ErrNotConfigured, "")
	}

	resp, err := g.client.Complete(ctx, LLMRequest{
		Messages:    []LLMMessage{{Role: "user", Content: prompt.String()}},
		Temperature: 0.1,
		TopP:        0.8,
		TopK:        40,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return g.fallback(fmt.Errorf("completion failed: %w", err), "")
	}

	query, err := Clean(resp.Content)
	if err != nil {
		return g.fallback(err, resp.Model)
	}

	g.logger.Debug("sparql generated", "model", resp.Model, "query", query)
	return Generation{Query: query, Strategy: StrategyLLM, Model: resp.Model}
}

func (g *Generator) fallback(err error, model string) Generation {
	g.logger.Warn("sparql generation fell back", "error", err, "model", model)
	return Generation{Query: FallbackQuery, Strategy: StrategyFallback, Model: model, Err: err}
}

var (
	fencedBlock   = regexp.MustCompile("(?s)```[^\n]*\n(.*?)```")
	fenceOpen     = regexp.MustCompile("```[^\n]*\n")
	queryStart    = []string{"PREFIX", "SELECT", "CONSTRUCT", "ASK", "DESCRIBE"}
	selectKeyword = regexp.MustCompile(`(?i)\bSELECT\b`)
	prefixUse     = regexp.MustCompile(`(?:^|[\s(,;/^|!])([a-z][a-z0-9]*):[A-Za-z_]`)

	typedDonation = regexp.MustCompile(`\?donation\s+a\s+eco:([A-Z][A-Za-z]*Donation)\s*\.`)
	donationType  = regexp.MustCompile(`^\?donation\s+eco:donationType\s+\?[A-Za-z_][A-Za-z0-9_]*\s*\.$`)
)

// fragilePatterns are triple patterns that make queries return nothing when
// the data leaves them out; they are made optional.
var fragilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\?location\s+eco:locationName\s+\?locationName\s*\.$`),
	regexp.MustCompile(`^\?location\s+eco:city\s+\?city\s*\.$`),
	donationType,
}

// Clean extracts the query from a model response and repairs what it can.
// It fails when the result is not a syntactically valid SELECT query.
func Clean(text string) (string, error) {
	query := extract(text)

	if !strings.Contains(query, "PREFIX eco:") {
		query = sparql.Prologue("eco") + query
	}
	query = declareUsedPrefixes(query)

	if !selectKeyword.MatchString(query) {
		return "", ErrNoSelect
	}
	if _, err := sparql.Parse(query); err != nil {
		return "", err
	}

	query = wrapOptional(query)
	query = widenDonationTypes(query)

	parsed, err := sparql.Parse(query)
	if err != nil {
		return "", err
	}
	if parsed.Form != "SELECT" {
		return "", ErrNoSelect
	}
	if parsed.Projects("donation") && !parsed.Distinct && !parsed.Reduced {
		query = forceDistinct(query)
	}
	if parsed.Limit == nil {
		query = addLimit(query, defaultLimit)
	}

	if _, err := sparql.Parse(query); err != nil {
		return "", err
	}
	return query, nil
}

// addLimit appends a LIMIT clause, which must precede a trailing VALUES
// block.
func addLimit(query string, limit int) string {
	parsed, err := sparql.Parse(query)
	if err != nil || parsed.TrailingValues == 0 {
		return fmt.Sprintf("%s\nLIMIT %d", query, limit)
	}
	at := parsed.TrailingValues
	return fmt.Sprintf("%s\nLIMIT %d\n%s", strings.TrimRight(query[:at], " \t\r\n"), limit, query[at:])
}

// extract drops code fences and any prose before the query. When the answer
// holds a fenced block only its content is kept.
func extract(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = fenceOpen.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")

	var out []string
	in := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !in && hasQueryStart(trimmed) {
			in = true
		}
		if !in || trimmed == "" || strings.HasPrefix(trimmed, "QUESTION:") {
			continue
		}
		out = append(out, strings.TrimRight(line, " \t\r"))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func hasQueryStart(line string) bool {
	for _, kw := range queryStart {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// declareUsedPrefixes adds PREFIX lines for well-known prefixes the model
// used without declaring.
func declareUsedPrefixes(query string) string {
	var missing []string
	seen := map[string]bool{}
	for _, m := range prefixUse.FindAllStringSubmatch(query, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if declaredPrefix(query, name) {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return query
	}
	return sparql.Prologue(missing...) + query
}

func declaredPrefix(query, name string) bool {
	for _, line := range strings.Split(query, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.EqualFold(fields[0], "PREFIX") && fields[1] == name+":" {
			return true
		}
	}
	return false
}

// wrapOptional rewrites fragile triple patterns written on their own line
// into OPTIONAL blocks unless they already sit inside one.
func wrapOptional(query string) string {
	lines := strings.Split(query, "\n")
	var stack []bool // one entry per open brace, true when it opens an OPTIONAL

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !insideOptional(stack) {
			for _, re := range fragilePatterns {
				if re.MatchString(trimmed) {
					indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
					lines[i] = indent + "OPTIONAL { " + trimmed + " }"
					break
				}
			}
		}
		stack = trackBraces(stack, line)
	}
	return strings.Join(lines, "\n")
}

func insideOptional(stack []bool) bool {
	for _, optional := range stack {
		if optional {
			return true
		}
	}
	return false
}

// trackBraces updates the brace stack for one line, skipping braces inside
// string literals and IRIs.
func trackBraces(stack []bool, line string) []bool {
	var quote byte
	inIRI := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case inIRI:
			if c == '>' {
				inIRI = false
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '<' && i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '=':
			inIRI = true
		case c == '#':
			return stack
		case c == '{':
			before := strings.ToUpper(strings.TrimSpace(line[:i]))
			stack = append(stack, strings.HasSuffix(before, "OPTIONAL"))
		case c == '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack
}

// widenDonationTypes lets a typed donation pattern also match individuals
// only typed as eco:Donation.
func widenDonationTypes(query string) string {
	return typedDonation.ReplaceAllStringFunc(query, func(m string) string {
		class := typedDonation.FindStringSubmatch(m)[1]
		return "{ ?donation a eco:" + class + " . } UNION { ?donation a eco:Donation . }"
	})
}

func forceDistinct(query string) string {
	loc := selectKeyword.FindStringIndex(query)
	if loc == nil {
		return query
	}
	return query[:loc[1]] + " DISTINCT" + query[loc[1]:]
}
