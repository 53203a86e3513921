package query

// Classify converts a single value token into a Term. Only TokTerm and
// TokPhrase classify; ok is false for every other kind.
func Classify(tok Token) (Term, bool) {
	switch tok.Kind {
	case TokTerm:
		return Term{Type: TermGeneral, Value: tok.Value, Excluded: tok.Neg}, true
	case TokPhrase:
		return Term{Type: TermPhrase, Value: tok.Value, Excluded: tok.Neg, Phrase: true}, true
	default:
		return Term{}, false
	}
}

// ClassifyField scopes a value token to the field named by prefix. The
// exclusion flag may sit on either token.
func ClassifyField(prefix, tok Token) (Term, bool) {
	f, ok := ParseField(prefix.Value)
	if !ok || prefix.Kind != TokFieldPrefix {
		return Term{}, false
	}
	t, ok := Classify(tok)
	if !ok {
		return Term{}, false
	}
	t.Type = TermField
	t.Field = f
	t.Excluded = t.Excluded || prefix.Neg
	return t, true
}

// classifyAt classifies the term starting at toks[i] and returns the index
// after it. ok is false when toks[i] does not start a term.
func classifyAt(toks []Token, i int) (Term, int, bool) {
	tok := toks[i]
	if tok.Kind == TokFieldPrefix {
		if i+1 < len(toks) {
			if t, ok := ClassifyField(tok, toks[i+1]); ok {
				return t, i + 2, true
			}
		}
		return Term{}, i + 1, false
	}
	t, ok := Classify(tok)
	return t, i + 1, ok
}
