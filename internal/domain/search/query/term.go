package query

import "strconv"

// TermType is the classification of a Term.
type TermType int

// Term classifications.
const (
	TermGeneral TermType = iota
	TermPhrase
	TermField
)

func (t TermType) String() string {
	switch t {
	case TermGeneral:
		return "general"
	case TermPhrase:
		return "phrase"
	case TermField:
		return "field"
	default:
		return "TermType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Term is one classified unit of a query.
//
// Type == TermField implies Field is set. Phrase is true when the value was
// quote-delimited, for both TermPhrase and quoted field values.
type Term struct {
	Type     TermType
	Value    string
	Field    Field
	Excluded bool
	Phrase   bool
}

// IsPhrase reports whether the term must match as an exact phrase.
func (t Term) IsPhrase() bool { return t.Phrase }

func (t Term) String() string {
	s := t.Value
	if t.Phrase {
		s = strconv.Quote(s)
	}
	if t.Type == TermField {
		s = t.Field.String() + ":" + s
	}
	if t.Excluded {
		s = "-" + s
	}
	return s
}

// Operator joins the terms of a BooleanGroup.
type Operator int

// Group operators. OpAnd is the default.
const (
	OpAnd Operator = iota
	OpOr
)

func (o Operator) String() string {
	if o == OpOr {
		return "OR"
	}
	return "AND"
}

// BooleanGroup is a set of terms governed by one operator. Exclusion stays
// per-term and is not affected by the operator.
type BooleanGroup struct {
	Operator Operator
	Terms    []Term
}

// Included returns the non-excluded terms.
func (g BooleanGroup) Included() []Term {
	out := make([]Term, 0, len(g.Terms))
	for _, t := range g.Terms {
		if !t.Excluded {
			out = append(out, t)
		}
	}
	return out
}

// Excluded returns the excluded terms.
func (g BooleanGroup) Excluded() []Term {
	var out []Term
	for _, t := range g.Terms {
		if t.Excluded {
			out = append(out, t)
		}
	}
	return out
}

func (g BooleanGroup) clone() BooleanGroup {
	terms := make([]Term, len(g.Terms))
	copy(terms, g.Terms)
	return BooleanGroup{Operator: g.Operator, Terms: terms}
}
