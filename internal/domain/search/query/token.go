package query

import "strconv"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

// Token kinds produced by Tokenize.
const (
	TokTerm TokenKind = iota
	TokPhrase
	TokFieldPrefix
	TokAnd
	TokOr
	TokLParen
	TokRParen
)

func (k TokenKind) String() string {
	switch k {
	case TokTerm:
		return "TERM"
	case TokPhrase:
		return "PHRASE"
	case TokFieldPrefix:
		return "FIELD_PREFIX"
	case TokAnd:
		return "AND"
	case TokOr:
		return "OR"
	case TokLParen:
		return "LPAREN"
	case TokRParen:
		return "RPAREN"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a single lexical unit of a raw query.
//
// For TokFieldPrefix, Value holds the canonical field name and the value
// token follows immediately. Neg records a '-' directly adjoining the token.
// Pos is the rune offset of the token start in the raw query.
type Token struct {
	Kind  TokenKind
	Value string
	Neg   bool
	Pos   int
}

// IsOperator reports whether the token is a free-standing AND/OR keyword.
func (t Token) IsOperator() bool {
	return t.Kind == TokAnd || t.Kind == TokOr
}

func (t Token) String() string {
	s := t.Kind.String()
	if t.Value != "" {
		s += "(" + strconv.Quote(t.Value) + ")"
	}
	if t.Neg {
		s = "-" + s
	}
	return s
}
