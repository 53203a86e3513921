package query

// hasOperator reports whether toks contains a free-standing AND/OR keyword.
func hasOperator(toks []Token) bool {
	for _, t := range toks {
		if t.IsOperator() {
			return true
		}
	}
	return false
}

// grouper resolves parentheses and explicit operators over a token array.
// Parenthesized spans are flattened into the enclosing group: the
// sub-expression contributes its terms, not a nested boolean node.
type grouper struct {
	toks  []Token
	match []int // index of the matching paren, -1 when unmatched
}

func newGrouper(toks []Token) *grouper {
	g := &grouper{toks: toks, match: make([]int, len(toks))}
	stack := make([]int, 0, 8)
	for i, t := range toks {
		g.match[i] = -1
		switch t.Kind {
		case TokLParen:
			stack = append(stack, i)
		case TokRParen:
			if n := len(stack); n > 0 {
				open := stack[n-1]
				stack = stack[:n-1]
				g.match[open] = i
				g.match[i] = open
			}
		}
	}
	return g
}

// span is the parse result of a token range.
type span struct {
	terms []Term
	op    Operator
	opSet bool
}

// groups splits the stream at unmatched parentheses and resolves each
// segment into one BooleanGroup. Unmatched parentheses never sit inside a
// matched pair, so they only occur at this level.
func (g *grouper) groups() []BooleanGroup {
	var out []BooleanGroup
	from := 0
	flush := func(to int) {
		if s := g.parseSpan(from, to); len(s.terms) > 0 {
			out = append(out, BooleanGroup{Operator: s.op, Terms: s.terms})
		}
	}
	for i, t := range g.toks {
		if (t.Kind == TokLParen || t.Kind == TokRParen) && g.match[i] < 0 {
			flush(i)
			from = i + 1
		}
	}
	flush(len(g.toks))
	return out
}

// parseSpan resolves toks[start:end]. Each operator resets the operator for
// the whole span, so the last one wins. A span without its own operator
// takes the operator of its first sub-span that has one.
func (g *grouper) parseSpan(start, end int) span {
	var (
		s         span
		inherited Operator
		hasInher  bool
	)
	for i := start; i < end; {
		t := g.toks[i]
		switch t.Kind {
		case TokLParen:
			closeAt := g.match[i]
			if closeAt < 0 || closeAt >= end {
				i++
				continue
			}
			sub := g.parseSpan(i+1, closeAt)
			s.terms = append(s.terms, sub.terms...)
			if sub.opSet && !hasInher {
				inherited, hasInher = sub.op, true
			}
			i = closeAt + 1
		case TokRParen:
			i++
		case TokAnd, TokOr:
			if len(s.terms) > 0 {
				s.op = OpAnd
				if t.Kind == TokOr {
					s.op = OpOr
				}
				s.opSet = true
			}
			i++
		default:
			term, next, ok := classifyAt(g.toks, i)
			if ok {
				s.terms = append(s.terms, term)
			}
			i = next
		}
	}
	if !s.opSet && hasInher {
		s.op, s.opSet = inherited, true
	}
	return s
}

// operatorWords re-reads AND/OR keywords as literal general terms. It backs
// queries whose explicit structure resolves to nothing, such as "AND OR".
func operatorWords(toks []Token) []BooleanGroup {
	var terms []Term
	for _, t := range toks {
		if t.IsOperator() {
			terms = append(terms, Term{Type: TermGeneral, Value: t.Value})
		}
	}
	if len(terms) == 0 {
		return nil
	}
	return []BooleanGroup{{Operator: OpAnd, Terms: terms}}
}
