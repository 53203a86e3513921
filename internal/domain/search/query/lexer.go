package query

import (
	"strings"
	"unicode"
)

// closingQuote maps every accepted opening quote to its closing rune.
var closingQuote = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'「':  '」',
	'『':  '』',
}

// lexer walks the raw query as runes. It never fails: every input yields
// some (possibly empty) token slice.
type lexer struct {
	input  []rune
	pos    int
	out    []Token
	depth  int
	scopes []fieldScope
}

// fieldScope is an open "field:(" span. Bare values inside it are scoped to
// field until the paren at depth closes.
type fieldScope struct {
	field Field
	neg   bool
	depth int
}

// Tokenize splits a raw query into tokens. Quoted spans are copied verbatim,
// unterminated quotes close at end of input, and parentheses are always
// separate tokens. In "field:( ... )" every bare value gets its own copy of
// the field prefix; an unclosed span runs to end of input.
func Tokenize(raw string) []Token {
	l := &lexer{input: []rune(raw)}
	for {
		l.skipWhitespace()
		if l.eof() {
			return l.out
		}
		l.next()
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() rune { return l.input[l.pos] }

func (l *lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.pos++
	}
}

// atBreak reports whether the current rune ends a bare word.
func (l *lexer) atBreak() bool {
	if l.eof() {
		return true
	}
	r := l.peek()
	return unicode.IsSpace(r) || r == '(' || r == ')'
}

func (l *lexer) emit(t Token) { l.out = append(l.out, t) }

func (l *lexer) next() {
	start := l.pos
	switch l.peek() {
	case '(':
		l.pos++
		l.depth++
		l.emit(Token{Kind: TokLParen, Value: "(", Pos: start})
		return
	case ')':
		l.pos++
		if n := len(l.scopes); n > 0 && l.scopes[n-1].depth == l.depth {
			l.scopes = l.scopes[:n-1]
		}
		if l.depth > 0 {
			l.depth--
		}
		l.emit(Token{Kind: TokRParen, Value: ")", Pos: start})
		return
	}

	neg := false
	if l.peek() == '-' {
		l.pos++
		if l.atBreak() {
			// lone '-' carries nothing to exclude
			return
		}
		neg = true
	}

	if _, ok := closingQuote[l.peek()]; ok {
		if value, ok := l.readQuoted(); ok {
			l.emitValue(Token{Kind: TokPhrase, Value: value, Neg: neg, Pos: start})
		}
		return
	}

	l.readWord(start, neg)
}

// emitValue emits a bare value, prefixed by the innermost open field scope.
func (l *lexer) emitValue(t Token) {
	if n := len(l.scopes); n > 0 {
		s := l.scopes[n-1]
		l.emit(Token{Kind: TokFieldPrefix, Value: s.field.String(), Neg: s.neg, Pos: t.Pos})
	}
	l.emit(t)
}

// readQuoted consumes a quoted span starting at the opening quote. ok is
// false for spans with no visible content.
func (l *lexer) readQuoted() (string, bool) {
	closer := closingQuote[l.peek()]
	l.pos++
	from := l.pos
	for !l.eof() && l.peek() != closer {
		l.pos++
	}
	value := string(l.input[from:l.pos])
	if !l.eof() {
		l.pos++ // closing quote
	}
	return value, strings.TrimSpace(value) != ""
}

// readWord consumes a bare word. A recognized "field:" prefix splits the word
// into a TokFieldPrefix followed by its value token.
func (l *lexer) readWord(start int, neg bool) {
	from := l.pos
	for !l.atBreak() {
		if l.peek() == ':' {
			if f, ok := ParseField(string(l.input[from:l.pos])); ok {
				l.pos++
				l.readFieldValue(start, f, neg)
				return
			}
			// unknown prefix: the rest of the word is literal
			for !l.atBreak() {
				l.pos++
			}
			break
		}
		l.pos++
	}

	word := string(l.input[from:l.pos])
	if !neg {
		switch strings.ToUpper(word) {
		case "AND":
			l.emit(Token{Kind: TokAnd, Value: word, Pos: start})
			return
		case "OR":
			l.emit(Token{Kind: TokOr, Value: word, Pos: start})
			return
		}
	}
	l.emitValue(Token{Kind: TokTerm, Value: word, Neg: neg, Pos: start})
}

// readFieldValue reads the value after "field:". A prefix with no value is
// dropped; "field:(" opens a field scope.
func (l *lexer) readFieldValue(start int, f Field, neg bool) {
	if !l.eof() && l.peek() == '(' {
		l.scopes = append(l.scopes, fieldScope{field: f, neg: neg, depth: l.depth + 1})
		return
	}
	if l.atBreak() {
		return
	}
	prefix := Token{Kind: TokFieldPrefix, Value: f.String(), Neg: neg, Pos: start}

	valuePos := l.pos
	if _, ok := closingQuote[l.peek()]; ok {
		if value, ok := l.readQuoted(); ok {
			l.emit(prefix)
			l.emit(Token{Kind: TokPhrase, Value: value, Pos: valuePos})
		}
		return
	}

	from := l.pos
	for !l.atBreak() {
		l.pos++
	}
	l.emit(prefix)
	l.emit(Token{Kind: TokTerm, Value: string(l.input[from:l.pos]), Pos: valuePos})
}
