package sparql

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every error the parser reports.
var ErrSyntax = errors.New("sparql syntax error")

// SyntaxError locates a parse failure in the query text.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sparql syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokBlank
	tokVar
	tokString
	tokNumber
	tokLangTag
	tokWord
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of query"
	case tokIRI:
		return "IRI"
	case tokPName:
		return "prefixed name"
	case tokBlank:
		return "blank node"
	case tokVar:
		return "variable"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokLangTag:
		return "language tag"
	case tokWord:
		return "keyword"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func tokenize(src string) ([]token, error) {
	lx := &lexer{src: src}
	for {
		lx.skipSpaceAndComments()
		if lx.pos >= len(lx.src) {
			lx.toks = append(lx.toks, token{kind: tokEOF, pos: lx.pos})
			return lx.toks, nil
		}
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
}

func (lx *lexer) errorf(pos int, format string, args ...any) error {
	return newSyntaxError(lx.src, pos, fmt.Sprintf(format, args...))
}

func newSyntaxError(src string, pos int, msg string) *SyntaxError {
	if pos > len(src) {
		pos = len(src)
	}
	line := strings.Count(src[:pos], "\n") + 1
	col := pos - strings.LastIndex(src[:pos], "\n")
	return &SyntaxError{Line: line, Col: col, Msg: msg}
}

func (lx *lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		switch {
		case unicode.IsSpace(r):
			lx.pos += size
		case r == '#':
			if nl := strings.IndexByte(lx.src[lx.pos:], '\n'); nl >= 0 {
				lx.pos += nl + 1
			} else {
				lx.pos = len(lx.src)
			}
		default:
			return
		}
	}
}

func (lx *lexer) emit(kind tokenKind, start, end int) {
	lx.toks = append(lx.toks, token{kind: kind, text: lx.src[start:end], pos: start})
	lx.pos = end
}

func (lx *lexer) peekByte(offset int) byte {
	if lx.pos+offset < len(lx.src) {
		return lx.src[lx.pos+offset]
	}
	return 0
}

func (lx *lexer) next() error {
	start := lx.pos
	c := lx.src[lx.pos]
	switch {
	case c == '<':
		if end, ok := lx.scanIRIRef(); ok {
			lx.emit(tokIRI, start, end)
			return nil
		}
		if lx.peekByte(1) == '=' {
			lx.emit(tokPunct, start, start+2)
		} else {
			lx.emit(tokPunct, start, start+1)
		}
		return nil
	case c == '>':
		if lx.peekByte(1) == '=' {
			lx.emit(tokPunct, start, start+2)
		} else {
			lx.emit(tokPunct, start, start+1)
		}
		return nil
	case c == '"' || c == '\'':
		return lx.scanString()
	case c == '?' || c == '$':
		end := lx.scanVarName(start + 1)
		if end == start+1 {
			if c == '$' {
				return lx.errorf(start, "empty variable name")
			}
			lx.emit(tokPunct, start, start+1)
			return nil
		}
		lx.emit(tokVar, start, end)
		return nil
	case c == '@':
		end := start + 1
		for end < len(lx.src) && (isASCIILetter(lx.src[end]) || (end > start+1 && (lx.src[end] == '-' || isDigit(lx.src[end])))) {
			end++
		}
		if end == start+1 {
			return lx.errorf(start, "empty language tag")
		}
		lx.emit(tokLangTag, start, end)
		return nil
	case isDigit(c) || (c == '.' && isDigit(lx.peekByte(1))):
		lx.emit(tokNumber, start, lx.scanNumber())
		return nil
	case c == '_' && lx.peekByte(1) == ':':
		end := lx.scanName(start + 2)
		for end > start+2 && lx.src[end-1] == '.' {
			end--
		}
		if end == start+2 {
			return lx.errorf(start, "empty blank node label")
		}
		lx.emit(tokBlank, start, end)
		return nil
	case c == ':':
		lx.emit(tokPName, start, lx.scanLocal(start+1))
		return nil
	}

	r, _ := utf8.DecodeRuneInString(lx.src[start:])
	if unicode.IsLetter(r) {
		end := lx.scanName(start)
		for end > start && lx.src[end-1] == '.' {
			end--
		}
		if end < len(lx.src) && lx.src[end] == ':' {
			lx.emit(tokPName, start, lx.scanLocal(end+1))
			return nil
		}
		lx.emit(tokWord, start, end)
		return nil
	}

	two := ""
	if start+2 <= len(lx.src) {
		two = lx.src[start : start+2]
	}
	switch two {
	case "^^", "&&", "||", "!=":
		lx.emit(tokPunct, start, start+2)
		return nil
	}
	if strings.IndexByte("{}()[].,;*=+-/^|!", c) >= 0 {
		lx.emit(tokPunct, start, start+1)
		return nil
	}
	return lx.errorf(start, "unexpected character %q", r)
}

// scanIRIRef reports the end of an IRIREF starting at the current '<'.
func (lx *lexer) scanIRIRef() (int, bool) {
	for i := lx.pos + 1; i < len(lx.src); i++ {
		c := lx.src[i]
		switch {
		case c == '>':
			return i + 1, true
		case c <= ' ' || strings.IndexByte("<\"{}|^`\\", c) >= 0:
			return 0, false
		}
	}
	return 0, false
}

func (lx *lexer) scanString() error {
	start := lx.pos
	q := lx.src[start]
	long := strings.HasPrefix(lx.src[start:], strings.Repeat(string(q), 3))
	i := start + 1
	if long {
		i = start + 3
	}
	for i < len(lx.src) {
		c := lx.src[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case long && strings.HasPrefix(lx.src[i:], strings.Repeat(string(q), 3)):
			lx.emit(tokString, start, i+3)
			return nil
		case !long && c == q:
			lx.emit(tokString, start, i+1)
			return nil
		case !long && (c == '\n' || c == '\r'):
			return lx.errorf(start, "newline in string literal")
		}
		i++
	}
	return lx.errorf(start, "unterminated string literal")
}

func (lx *lexer) scanNumber() int {
	i := lx.pos
	for i < len(lx.src) && isDigit(lx.src[i]) {
		i++
	}
	if i+1 < len(lx.src) && lx.src[i] == '.' && isDigit(lx.src[i+1]) {
		i++
		for i < len(lx.src) && isDigit(lx.src[i]) {
			i++
		}
	}
	if i < len(lx.src) && (lx.src[i] == 'e' || lx.src[i] == 'E') {
		j := i + 1
		if j < len(lx.src) && (lx.src[j] == '+' || lx.src[j] == '-') {
			j++
		}
		if j < len(lx.src) && isDigit(lx.src[j]) {
			for j < len(lx.src) && isDigit(lx.src[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// scanName consumes name characters (letters, digits, '_', '-', '.').
func (lx *lexer) scanName(i int) int {
	for i < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[i:])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' || r == '·') {
			break
		}
		i += size
	}
	return i
}

// scanLocal consumes the local part of a prefixed name; it may be empty and
// never ends with '.'.
func (lx *lexer) scanLocal(i int) int {
	start := i
	for i < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' || r == ':' {
			i += size
			continue
		}
		if r == '%' && i+2 < len(lx.src) && isHex(lx.src[i+1]) && isHex(lx.src[i+2]) {
			i += 3
			continue
		}
		break
	}
	for i > start && lx.src[i-1] == '.' {
		i--
	}
	return i
}

// scanVarName consumes a variable name after '?' or '$'.
func (lx *lexer) scanVarName(i int) int {
	for i < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[i:])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '·') {
			break
		}
		i += size
	}
	return i
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
