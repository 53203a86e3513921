package predicate

import "github.com/kailas-cloud/transcripts/internal/domain/search/query"

// Compiler turns parsed queries into predicates for one backend.
type Compiler struct {
	strategy Strategy
	columns  []string
}

// NewCompiler creates a Compiler for backend b.
func NewCompiler(b Backend) *Compiler {
	return &Compiler{strategy: StrategyFor(b), columns: SearchColumns()}
}

// Backend returns the backend the compiler targets.
func (c *Compiler) Backend() Backend { return c.strategy.Backend() }

// Compile compiles pq for backend b.
func Compile(pq query.ParsedQuery, b Backend) Predicate {
	return NewCompiler(b).Compile(pq)
}

// Compile mirrors the engine clause structure: groups are ANDed, an OR group
// requires one of its included terms, and excluded terms are always negated.
// An empty query yields the empty predicate.
func (c *Compiler) Compile(pq query.ParsedQuery) Predicate {
	if pq.IsEmpty() {
		return Empty()
	}
	if pq.HasExplicitBooleans() {
		return c.compileGroups(pq.Groups())
	}
	return c.compileSimple(pq)
}

func (c *Compiler) compileGroups(groups []query.BooleanGroup) Predicate {
	parts := make([]Predicate, 0, len(groups))
	for _, g := range groups {
		var node []Predicate
		included := c.terms(g.Included())
		if g.Operator == query.OpOr && len(included) > 0 {
			node = append(node, Or(included...))
		} else {
			node = append(node, included...)
		}
		for _, t := range g.Excluded() {
			node = append(node, Not(c.term(t)))
		}
		parts = append(parts, And(node...))
	}
	return And(parts...)
}

func (c *Compiler) compileSimple(pq query.ParsedQuery) Predicate {
	var parts []Predicate
	for _, v := range pq.GeneralTerms() {
		parts = append(parts, c.anyColumn(v))
	}
	for _, v := range pq.QuotedPhrases() {
		parts = append(parts, c.anyColumn(v))
	}
	for _, f := range query.AllFields() {
		parts = append(parts, c.terms(pq.FieldTerms(f))...)
	}

	for _, v := range pq.ExcludedTerms() {
		parts = append(parts, Not(c.anyColumn(v)))
	}
	for _, v := range pq.ExcludedPhrases() {
		parts = append(parts, Not(c.anyColumn(v)))
	}
	for _, f := range query.AllFields() {
		for _, t := range pq.ExcludedFieldTerms(f) {
			parts = append(parts, Not(c.term(t)))
		}
	}
	return And(parts...)
}

func (c *Compiler) terms(ts []query.Term) []Predicate {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Predicate, 0, len(ts))
	for _, t := range ts {
		out = append(out, c.term(t))
	}
	return out
}

func (c *Compiler) term(t query.Term) Predicate {
	if t.Type == query.TermField {
		if col, ok := ColumnFor(t.Field); ok {
			return NewLeaf(c.strategy.Contains(col, t.Value))
		}
	}
	return c.anyColumn(t.Value)
}

func (c *Compiler) anyColumn(v string) Predicate {
	leaves := make([]Predicate, len(c.columns))
	for i, col := range c.columns {
		leaves[i] = NewLeaf(c.strategy.Contains(col, v))
	}
	return Or(leaves...)
}
