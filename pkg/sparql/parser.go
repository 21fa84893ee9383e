package sparql

import (
	"fmt"
	"strconv"
	"strings"
)

// Query describes a parsed read query.
type Query struct {
	Form       string // SELECT, ASK, CONSTRUCT or DESCRIBE
	Base       string
	Prefixes   map[string]string
	Distinct   bool
	Reduced    bool
	Star       bool
	Projection []string
	Variables  []string
	GroupBy    bool
	OrderBy    bool
	Limit      *int
	Offset     *int
	// TrailingValues is the byte offset of a VALUES block after the
	// solution modifiers, or 0 when there is none.
	TrailingValues int
}

// Projects reports whether variable name (without '?') is in the projection.
func (q *Query) Projects(name string) bool {
	if q.Star {
		return q.Mentions(name)
	}
	for _, v := range q.Projection {
		if v == name {
			return true
		}
	}
	return false
}

// Mentions reports whether variable name (without '?') appears anywhere.
func (q *Query) Mentions(name string) bool {
	for _, v := range q.Variables {
		if v == name {
			return true
		}
	}
	return false
}

// Parse checks query against the SPARQL 1.1 query grammar. Update requests
// are rejected.
func Parse(query string) (*Query, error) {
	toks, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &parser{
		src:  query,
		toks: toks,
		q:    &Query{Prefixes: map[string]string{}},
		seen: map[string]bool{},
	}
	if err := p.parseQuery(); err != nil {
		return nil, err
	}
	return p.q, nil
}

type parser struct {
	src  string
	toks []token
	pos  int
	q    *Query
	seen map[string]bool
	// depth of nested sub-selects; only the outer query fills Query fields
	sub int
}

type parseError struct{ err *SyntaxError }

func (p *parser) fail(format string, args ...any) {
	panic(parseError{newSyntaxError(p.src, p.peek().pos, fmt.Sprintf(format, args...))})
}

func (p *parser) parseQuery() (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			err = pe.err
		}
	}()

	p.prologue()
	switch {
	case p.isWord("SELECT"):
		p.q.Form = "SELECT"
		p.selectQuery()
	case p.isWord("CONSTRUCT"):
		p.q.Form = "CONSTRUCT"
		p.constructQuery()
	case p.isWord("DESCRIBE"):
		p.q.Form = "DESCRIBE"
		p.describeQuery()
	case p.isWord("ASK"):
		p.q.Form = "ASK"
		p.askQuery()
	default:
		p.fail("expected SELECT, CONSTRUCT, DESCRIBE or ASK, found %s", p.describe())
	}
	if p.isWord("VALUES") {
		p.q.TrailingValues = p.advance().pos
		p.dataBlock()
	}
	if p.peek().kind != tokEOF {
		p.fail("unexpected %s after end of query", p.describe())
	}
	return nil
}

// token helpers

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) describe() string {
	t := p.peek()
	if t.kind == tokEOF {
		return "end of query"
	}
	return fmt.Sprintf("%s %q", t.kind, t.text)
}

func (p *parser) isWord(w string) bool {
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.text, w)
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) expectWord(w string) {
	if !p.isWord(w) {
		p.fail("expected %s, found %s", w, p.describe())
	}
	p.advance()
}

func (p *parser) expectPunct(s string) {
	if !p.isPunct(s) {
		p.fail("expected %q, found %s", s, p.describe())
	}
	p.advance()
}

func (p *parser) acceptPunct(s string) bool {
	if p.isPunct(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptWord(w string) bool {
	if p.isWord(w) {
		p.advance()
		return true
	}
	return false
}

// prologue

func (p *parser) prologue() {
	for {
		switch {
		case p.isWord("BASE"):
			p.advance()
			t := p.advance()
			if t.kind != tokIRI {
				p.fail("BASE expects an IRI")
			}
			p.q.Base = strings.Trim(t.text, "<>")
		case p.isWord("PREFIX"):
			p.advance()
			t := p.advance()
			if t.kind != tokPName || !strings.HasSuffix(t.text, ":") {
				p.pos--
				p.fail("PREFIX expects a prefix name ending in ':'")
			}
			iri := p.advance()
			if iri.kind != tokIRI {
				p.pos--
				p.fail("PREFIX %s expects an IRI", t.text)
			}
			p.q.Prefixes[strings.TrimSuffix(t.text, ":")] = strings.Trim(iri.text, "<>")
		default:
			return
		}
	}
}

// query forms

func (p *parser) selectQuery() {
	p.selectClause()
	p.datasetClauses()
	p.whereClause(true)
	p.solutionModifier()
}

func (p *parser) selectClause() {
	p.expectWord("SELECT")
	outer := p.sub == 0
	if p.acceptWord("DISTINCT") {
		if outer {
			p.q.Distinct = true
		}
	} else if p.acceptWord("REDUCED") {
		if outer {
			p.q.Reduced = true
		}
	}
	if p.acceptPunct("*") {
		if outer {
			p.q.Star = true
		}
		return
	}
	n := 0
	for {
		switch {
		case p.peek().kind == tokVar:
			name := p.variable()
			if outer {
				p.q.Projection = append(p.q.Projection, name)
			}
		case p.isPunct("("):
			p.advance()
			p.expression()
			p.expectWord("AS")
			name := p.variable()
			p.expectPunct(")")
			if outer {
				p.q.Projection = append(p.q.Projection, name)
			}
		default:
			if n == 0 {
				p.fail("SELECT needs '*' or at least one variable")
			}
			return
		}
		n++
	}
}

func (p *parser) constructQuery() {
	p.expectWord("CONSTRUCT")
	if p.isPunct("{") {
		p.advance()
		p.triplesTemplate("}")
		p.expectPunct("}")
		p.datasetClauses()
		p.whereClause(true)
	} else {
		p.datasetClauses()
		p.expectWord("WHERE")
		p.expectPunct("{")
		p.triplesTemplate("}")
		p.expectPunct("}")
	}
	p.solutionModifier()
}

func (p *parser) describeQuery() {
	p.expectWord("DESCRIBE")
	if !p.acceptPunct("*") {
		n := 0
		for p.peek().kind == tokVar || p.isIRI() {
			p.varOrIRI()
			n++
		}
		if n == 0 {
			p.fail("DESCRIBE needs '*' or at least one variable or IRI")
		}
	}
	p.datasetClauses()
	if p.isWord("WHERE") || p.isPunct("{") {
		p.whereClause(true)
	}
	p.solutionModifier()
}

func (p *parser) askQuery() {
	p.expectWord("ASK")
	p.datasetClauses()
	p.whereClause(true)
	p.solutionModifier()
}

func (p *parser) datasetClauses() {
	for p.acceptWord("FROM") {
		p.acceptWord("NAMED")
		p.iri()
	}
}

func (p *parser) whereClause(optionalKeyword bool) {
	if !p.acceptWord("WHERE") && !optionalKeyword {
		p.fail("expected WHERE")
	}
	p.groupGraphPattern()
}

func (p *parser) solutionModifier() {
	outer := p.sub == 0
	if p.isWord("GROUP") {
		p.advance()
		p.expectWord("BY")
		if outer {
			p.q.GroupBy = true
		}
		n := 0
		for p.groupCondition() {
			n++
		}
		if n == 0 {
			p.fail("GROUP BY needs a condition")
		}
	}
	if p.acceptWord("HAVING") {
		n := 0
		for p.isConstraintStart() {
			p.constraint()
			n++
		}
		if n == 0 {
			p.fail("HAVING needs a constraint")
		}
	}
	if p.isWord("ORDER") {
		p.advance()
		p.expectWord("BY")
		if outer {
			p.q.OrderBy = true
		}
		n := 0
		for p.orderCondition() {
			n++
		}
		if n == 0 {
			p.fail("ORDER BY needs a condition")
		}
	}
	for i := 0; i < 2; i++ {
		switch {
		case p.isWord("LIMIT"):
			p.advance()
			v := p.integer()
			if outer {
				p.q.Limit = &v
			}
		case p.isWord("OFFSET"):
			p.advance()
			v := p.integer()
			if outer {
				p.q.Offset = &v
			}
		}
	}
}

func (p *parser) integer() int {
	t := p.peek()
	if t.kind != tokNumber {
		p.fail("expected an integer, found %s", p.describe())
	}
	v, err := strconv.Atoi(t.text)
	if err != nil || v < 0 {
		p.fail("expected a non-negative integer, found %q", t.text)
	}
	p.advance()
	return v
}

func (p *parser) groupCondition() bool {
	switch {
	case p.peek().kind == tokVar:
		p.variable()
	case p.isPunct("("):
		p.advance()
		p.expression()
		if p.acceptWord("AS") {
			p.variable()
		}
		p.expectPunct(")")
	case p.isBuiltinCall() || p.isIRI():
		p.primaryExpression()
	default:
		return false
	}
	return true
}

func (p *parser) orderCondition() bool {
	switch {
	case p.isWord("ASC") || p.isWord("DESC"):
		p.advance()
		p.bracketted()
	case p.peek().kind == tokVar:
		p.variable()
	case p.isConstraintStart():
		p.constraint()
	default:
		return false
	}
	return true
}

// graph patterns

func (p *parser) groupGraphPattern() {
	p.expectPunct("{")
	if p.isWord("SELECT") {
		p.sub++
		p.selectClause()
		p.whereClause(true)
		p.solutionModifier()
		if p.acceptWord("VALUES") {
			p.dataBlock()
		}
		p.sub--
	} else {
		p.groupGraphPatternSub()
	}
	p.expectPunct("}")
}

func (p *parser) groupGraphPatternSub() {
	for !p.isPunct("}") {
		if p.peek().kind == tokEOF {
			p.fail("unterminated group graph pattern")
		}
		if p.graphPatternNotTriples() {
			p.acceptPunct(".")
			continue
		}
		if !p.isTriplesStart() {
			p.fail("unexpected %s in group graph pattern", p.describe())
		}
		p.triplesSameSubject(true)
		if p.acceptPunct(".") {
			continue
		}
		if !p.isPunct("}") && !p.isGraphPatternNotTriplesStart() {
			p.fail("expected '.' or '}' after triple pattern, found %s", p.describe())
		}
	}
}

func (p *parser) isGraphPatternNotTriplesStart() bool {
	if p.isPunct("{") {
		return true
	}
	for _, w := range []string{"OPTIONAL", "MINUS", "GRAPH", "SERVICE", "FILTER", "BIND", "VALUES"} {
		if p.isWord(w) {
			return true
		}
	}
	return false
}

func (p *parser) graphPatternNotTriples() bool {
	switch {
	case p.isPunct("{"):
		p.groupGraphPattern()
		for p.acceptWord("UNION") {
			p.groupGraphPattern()
		}
	case p.acceptWord("OPTIONAL"), p.acceptWord("MINUS"):
		p.groupGraphPattern()
	case p.acceptWord("GRAPH"):
		p.varOrIRI()
		p.groupGraphPattern()
	case p.acceptWord("SERVICE"):
		p.acceptWord("SILENT")
		p.varOrIRI()
		p.groupGraphPattern()
	case p.acceptWord("FILTER"):
		p.constraint()
	case p.acceptWord("BIND"):
		p.expectPunct("(")
		p.expression()
		p.expectWord("AS")
		p.variable()
		p.expectPunct(")")
	case p.acceptWord("VALUES"):
		p.dataBlock()
	default:
		return false
	}
	return true
}

func (p *parser) dataBlock() {
	if p.peek().kind == tokVar {
		p.variable()
		p.expectPunct("{")
		for !p.isPunct("}") {
			p.dataBlockValue()
		}
		p.advance()
		return
	}
	p.expectPunct("(")
	width := 0
	for p.peek().kind == tokVar {
		p.variable()
		width++
	}
	p.expectPunct(")")
	p.expectPunct("{")
	for !p.isPunct("}") {
		p.expectPunct("(")
		n := 0
		for !p.isPunct(")") {
			p.dataBlockValue()
			n++
		}
		p.advance()
		if n != width {
			p.fail("VALUES row has %d values, expected %d", n, width)
		}
	}
	p.advance()
}

func (p *parser) dataBlockValue() {
	switch {
	case p.acceptWord("UNDEF"):
	case p.isIRI():
		p.iri()
	case p.isLiteralStart():
		p.literal()
	default:
		p.fail("unexpected %s in VALUES block", p.describe())
	}
}

// triplesTemplate parses triples up to the closing token (CONSTRUCT).
func (p *parser) triplesTemplate(closer string) {
	for !p.isPunct(closer) {
		if !p.isTriplesStart() {
			p.fail("unexpected %s in triples template", p.describe())
		}
		p.triplesSameSubject(false)
		if !p.acceptPunct(".") {
			break
		}
	}
}

func (p *parser) isTriplesStart() bool {
	t := p.peek()
	switch t.kind {
	case tokVar, tokIRI, tokPName, tokBlank, tokString, tokNumber:
		return true
	case tokWord:
		return p.isWord("true") || p.isWord("false")
	case tokPunct:
		return t.text == "(" || t.text == "[" || t.text == "-" || t.text == "+"
	}
	return false
}

func (p *parser) triplesSameSubject(paths bool) {
	if p.isPunct("[") || p.isPunct("(") {
		empty := p.triplesNode(paths)
		if empty || p.isVerbStart() {
			p.propertyList(paths)
		}
		return
	}
	p.varOrTerm()
	p.propertyList(paths)
}

// triplesNode parses a collection or a blank node property list and reports
// whether it was an empty anonymous node '[]' that needs a property list.
func (p *parser) triplesNode(paths bool) bool {
	if p.acceptPunct("[") {
		if p.acceptPunct("]") {
			return true
		}
		p.propertyList(paths)
		p.expectPunct("]")
		return false
	}
	p.expectPunct("(")
	if p.acceptPunct(")") {
		return false
	}
	for !p.isPunct(")") {
		p.graphNode(paths)
	}
	p.advance()
	return false
}

func (p *parser) isVerbStart() bool {
	t := p.peek()
	switch t.kind {
	case tokVar, tokIRI, tokPName:
		return true
	case tokWord:
		return t.text == "a"
	case tokPunct:
		return t.text == "^" || t.text == "!" || t.text == "("
	}
	return false
}

func (p *parser) propertyList(paths bool) {
	if !p.isVerbStart() {
		p.fail("expected a predicate, found %s", p.describe())
	}
	for {
		p.verb(paths)
		p.objectList(paths)
		if !p.acceptPunct(";") {
			return
		}
		for p.acceptPunct(";") {
		}
		if !p.isVerbStart() {
			return
		}
	}
}

func (p *parser) verb(paths bool) {
	if p.peek().kind == tokVar {
		p.variable()
		return
	}
	if !paths {
		if p.peek().kind == tokWord && p.peek().text == "a" {
			p.advance()
			return
		}
		p.iri()
		return
	}
	p.path()
}

func (p *parser) objectList(paths bool) {
	p.graphNode(paths)
	for p.acceptPunct(",") {
		p.graphNode(paths)
	}
}

func (p *parser) graphNode(paths bool) {
	if p.isPunct("[") || p.isPunct("(") {
		if p.isPunct("(") && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == ")" {
			p.advance()
			p.advance()
			return
		}
		p.triplesNode(paths)
		return
	}
	p.varOrTerm()
}

// property paths

func (p *parser) path() {
	p.pathSequence()
	for p.acceptPunct("|") {
		p.pathSequence()
	}
}

func (p *parser) pathSequence() {
	p.pathEltOrInverse()
	for p.acceptPunct("/") {
		p.pathEltOrInverse()
	}
}

func (p *parser) pathEltOrInverse() {
	p.acceptPunct("^")
	p.pathPrimary()
	if p.isPunct("*") || p.isPunct("+") || p.isPunct("?") {
		p.advance()
	}
}

func (p *parser) pathPrimary() {
	switch {
	case p.peek().kind == tokWord && p.peek().text == "a":
		p.advance()
	case p.acceptPunct("!"):
		if p.acceptPunct("(") {
			if !p.isPunct(")") {
				p.pathOneInPropertySet()
				for p.acceptPunct("|") {
					p.pathOneInPropertySet()
				}
			}
			p.expectPunct(")")
		} else {
			p.pathOneInPropertySet()
		}
	case p.acceptPunct("("):
		p.path()
		p.expectPunct(")")
	default:
		p.iri()
	}
}

func (p *parser) pathOneInPropertySet() {
	p.acceptPunct("^")
	if p.peek().kind == tokWord && p.peek().text == "a" {
		p.advance()
		return
	}
	p.iri()
}

// terms

func (p *parser) isIRI() bool {
	k := p.peek().kind
	return k == tokIRI || k == tokPName
}

func (p *parser) iri() {
	t := p.peek()
	switch t.kind {
	case tokIRI:
		p.advance()
	case tokPName:
		prefix := t.text[:strings.Index(t.text, ":")]
		if _, ok := p.q.Prefixes[prefix]; !ok {
			p.fail("undeclared prefix %q", prefix+":")
		}
		p.advance()
	default:
		p.fail("expected an IRI, found %s", p.describe())
	}
}

func (p *parser) variable() string {
	t := p.peek()
	if t.kind != tokVar {
		p.fail("expected a variable, found %s", p.describe())
	}
	p.advance()
	name := t.text[1:]
	if !p.seen[name] {
		p.seen[name] = true
		p.q.Variables = append(p.q.Variables, name)
	}
	return name
}

func (p *parser) varOrIRI() {
	if p.peek().kind == tokVar {
		p.variable()
		return
	}
	p.iri()
}

func (p *parser) varOrTerm() {
	t := p.peek()
	switch {
	case t.kind == tokVar:
		p.variable()
	case t.kind == tokBlank:
		p.advance()
	case p.isIRI():
		p.iri()
	case p.isPunct("[") && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == "]":
		p.advance()
		p.advance()
	case p.isLiteralStart():
		p.literal()
	default:
		p.fail("expected a variable or RDF term, found %s", p.describe())
	}
}

func (p *parser) isLiteralStart() bool {
	t := p.peek()
	switch t.kind {
	case tokString, tokNumber:
		return true
	case tokWord:
		return p.isWord("true") || p.isWord("false")
	case tokPunct:
		return (t.text == "-" || t.text == "+") && p.peekAt(1).kind == tokNumber
	}
	return false
}

func (p *parser) literal() {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.advance()
		if p.peek().kind == tokLangTag {
			p.advance()
		} else if p.acceptPunct("^^") {
			p.iri()
		}
	case tokNumber:
		p.advance()
	case tokWord:
		p.advance()
	case tokPunct:
		p.advance()
		p.advance()
	}
}

// expressions

func (p *parser) isConstraintStart() bool {
	return p.isPunct("(") || p.isBuiltinCall() || p.isIRI()
}

func (p *parser) constraint() {
	switch {
	case p.isPunct("("):
		p.bracketted()
	case p.isBuiltinCall():
		p.builtinCall()
	case p.isIRI():
		p.iri()
		p.argList()
	default:
		p.fail("expected a constraint, found %s", p.describe())
	}
}

func (p *parser) bracketted() {
	p.expectPunct("(")
	p.expression()
	p.expectPunct(")")
}

func (p *parser) expression() {
	p.andExpression()
	for p.acceptPunct("||") {
		p.andExpression()
	}
}

func (p *parser) andExpression() {
	p.relationalExpression()
	for p.acceptPunct("&&") {
		p.relationalExpression()
	}
}

func (p *parser) relationalExpression() {
	p.additiveExpression()
	switch {
	case p.isPunct("=") || p.isPunct("!=") || p.isPunct("<") || p.isPunct(">") || p.isPunct("<=") || p.isPunct(">="):
		p.advance()
		p.additiveExpression()
	case p.isWord("IN"):
		p.advance()
		p.expressionList()
	case p.isWord("NOT") && strings.EqualFold(p.peekAt(1).text, "IN"):
		p.advance()
		p.advance()
		p.expressionList()
	}
}

func (p *parser) expressionList() {
	p.expectPunct("(")
	if p.acceptPunct(")") {
		return
	}
	p.expression()
	for p.acceptPunct(",") {
		p.expression()
	}
	p.expectPunct(")")
}

func (p *parser) additiveExpression() {
	p.multiplicativeExpression()
	for p.isPunct("+") || p.isPunct("-") {
		p.advance()
		p.multiplicativeExpression()
	}
}

func (p *parser) multiplicativeExpression() {
	p.unaryExpression()
	for p.isPunct("*") || p.isPunct("/") {
		p.advance()
		p.unaryExpression()
	}
}

func (p *parser) unaryExpression() {
	if p.isPunct("!") || p.isPunct("+") || p.isPunct("-") {
		p.advance()
	}
	p.primaryExpression()
}

func (p *parser) primaryExpression() {
	t := p.peek()
	switch {
	case p.isPunct("("):
		p.bracketted()
	case p.isBuiltinCall():
		p.builtinCall()
	case p.isIRI():
		p.iri()
		if p.isPunct("(") {
			p.argList()
		}
	case t.kind == tokVar:
		p.variable()
	case t.kind == tokString || t.kind == tokNumber || p.isWord("true") || p.isWord("false"):
		p.literal()
	default:
		p.fail("expected an expression, found %s", p.describe())
	}
}

func (p *parser) argList() {
	p.expectPunct("(")
	if p.acceptPunct(")") {
		return
	}
	p.acceptWord("DISTINCT")
	p.expression()
	for p.acceptPunct(",") {
		p.expression()
	}
	p.expectPunct(")")
}

var aggregates = map[string]bool{
	"COUNT": true, "SUM": true, "MIN": true, "MAX": true, "AVG": true,
	"SAMPLE": true, "GROUP_CONCAT": true,
}

// builtins maps each built-in function to its allowed argument counts;
// -1 means variadic.
var builtins = map[string][]int{
	"STR": {1}, "LANG": {1}, "LANGMATCHES": {2}, "DATATYPE": {1}, "BOUND": {1},
	"IRI": {1}, "URI": {1}, "BNODE": {0, 1}, "RAND": {0}, "ABS": {1},
	"CEIL": {1}, "FLOOR": {1}, "ROUND": {1}, "CONCAT": {-1}, "STRLEN": {1},
	"UCASE": {1}, "LCASE": {1}, "ENCODE_FOR_URI": {1}, "CONTAINS": {2},
	"STRSTARTS": {2}, "STRENDS": {2}, "STRBEFORE": {2}, "STRAFTER": {2},
	"YEAR": {1}, "MONTH": {1}, "DAY": {1}, "HOURS": {1}, "MINUTES": {1},
	"SECONDS": {1}, "TIMEZONE": {1}, "TZ": {1}, "NOW": {0}, "UUID": {0},
	"STRUUID": {0}, "MD5": {1}, "SHA1": {1}, "SHA256": {1}, "SHA384": {1},
	"SHA512": {1}, "COALESCE": {-1}, "IF": {3}, "STRLANG": {2}, "STRDT": {2},
	"SAMETERM": {2}, "ISIRI": {1}, "ISURI": {1}, "ISBLANK": {1},
	"ISLITERAL": {1}, "ISNUMERIC": {1}, "REGEX": {2, 3}, "SUBSTR": {2, 3},
	"REPLACE": {3, 4},
}

func (p *parser) isBuiltinCall() bool {
	t := p.peek()
	if t.kind != tokWord {
		return false
	}
	name := strings.ToUpper(t.text)
	if name == "EXISTS" || (name == "NOT" && strings.EqualFold(p.peekAt(1).text, "EXISTS")) {
		return true
	}
	if _, ok := builtins[name]; ok {
		return true
	}
	return aggregates[name]
}

func (p *parser) builtinCall() {
	t := p.advance()
	name := strings.ToUpper(t.text)

	switch {
	case name == "EXISTS":
		p.groupGraphPattern()
		return
	case name == "NOT":
		p.expectWord("EXISTS")
		p.groupGraphPattern()
		return
	case aggregates[name]:
		p.aggregate(name)
		return
	}

	arity := builtins[name]
	if !p.isPunct("(") {
		p.fail("%s expects an argument list", name)
	}
	p.advance()
	n := 0
	if !p.isPunct(")") {
		p.expression()
		n++
		for p.acceptPunct(",") {
			p.expression()
			n++
		}
	}
	p.expectPunct(")")
	for _, a := range arity {
		if a == -1 || a == n {
			return
		}
	}
	p.pos--
	p.fail("%s does not take %d argument(s)", name, n)
}

func (p *parser) aggregate(name string) {
	p.expectPunct("(")
	p.acceptWord("DISTINCT")
	if name == "COUNT" && p.acceptPunct("*") {
		p.expectPunct(")")
		return
	}
	p.expression()
	if name == "GROUP_CONCAT" && p.acceptPunct(";") {
		p.expectWord("SEPARATOR")
		p.expectPunct("=")
		if p.peek().kind != tokString {
			p.fail("SEPARATOR expects a string")
		}
		p.advance()
	}
	p.expectPunct(")")
}

// Check parses query and only reports whether it is valid.
func Check(query string) error {
	_, err := Parse(query)
	return err
}
