// Package clause compiles a parsed query into a boolean clause tree for a
// full-text search engine.
package clause

// MatchMode selects how a leaf is matched.
type MatchMode int

// Match modes.
const (
	// BestFields matches the words of the value in any of the fields and
	// scores by the best field.
	BestFields MatchMode = iota
	// Phrase requires the value as an exact phrase.
	Phrase
)

func (m MatchMode) String() string {
	if m == Phrase {
		return "phrase"
	}
	return "best_fields"
}

// Match is a leaf match clause.
type Match struct {
	Value  string
	Fields []string
	Mode   MatchMode
	// RequireAll requires every word of Value (operator "and").
	RequireAll bool
}

// Clause is a node of the engine query tree. Exactly one of the following
// holds: MatchAll is set, Match is set, or the node is a bool node built
// from Must, Should and MustNot.
type Clause struct {
	Must               []Clause
	Should             []Clause
	MustNot            []Clause
	MinimumShouldMatch int
	Match              *Match
	MatchAll           bool
}

// All returns the match-everything clause.
func All() Clause { return Clause{MatchAll: true} }

// Leaf wraps a match into a clause.
func Leaf(m Match) Clause {
	fields := make([]string, len(m.Fields))
	copy(fields, m.Fields)
	m.Fields = fields
	return Clause{Match: &m}
}

// IsLeaf reports whether c is a single match.
func (c Clause) IsLeaf() bool { return c.Match != nil }

// IsBool reports whether c is a bool node.
func (c Clause) IsBool() bool { return !c.MatchAll && c.Match == nil }

// Leaves returns every match leaf in depth-first order: must, should,
// must_not.
func (c Clause) Leaves() []Match {
	var out []Match
	var walk func(Clause)
	walk = func(n Clause) {
		if n.Match != nil {
			out = append(out, *n.Match)
			return
		}
		for _, list := range [][]Clause{n.Must, n.Should, n.MustNot} {
			for _, child := range list {
				walk(child)
			}
		}
	}
	walk(c)
	return out
}
