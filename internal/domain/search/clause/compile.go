package clause

import (
	"strings"

	"github.com/kailas-cloud/transcripts/internal/domain/search/query"
)

// FieldMap names the engine fields behind each query field.
type FieldMap struct {
	// All is searched by unscoped terms.
	All []string
	// Scoped maps a query field to its engine field.
	Scoped map[query.Field]string
}

// DefaultFieldMap returns the transcript index layout.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		All: []string{"title", "content", "speaker", "meeting_name", "committees"},
		Scoped: map[query.Field]string{
			query.FieldTitle:     "title",
			query.FieldSpeaker:   "speaker",
			query.FieldMeeting:   "meeting_name",
			query.FieldCommittee: "committees",
		},
	}
}

// Compiler turns parsed queries into engine clauses. It holds no per-call
// state and is safe for concurrent use.
type Compiler struct {
	fields FieldMap
}

// NewCompiler creates a Compiler over the given field layout.
func NewCompiler(fm FieldMap) *Compiler {
	return &Compiler{fields: fm}
}

var defaultCompiler = NewCompiler(DefaultFieldMap())

// Compile compiles pq with the default field layout.
func Compile(pq query.ParsedQuery) Clause { return defaultCompiler.Compile(pq) }

// Compile converts pq into a clause tree. An empty query matches everything.
func (c *Compiler) Compile(pq query.ParsedQuery) Clause {
	if pq.IsEmpty() {
		return All()
	}
	if pq.HasExplicitBooleans() {
		return c.compileGroups(pq.Groups())
	}
	return c.compileSimple(pq)
}

// compileGroups requires every group. Excluded terms always land in
// MustNot, whatever the group operator.
func (c *Compiler) compileGroups(groups []query.BooleanGroup) Clause {
	out := make([]Clause, 0, len(groups))
	for _, g := range groups {
		var node Clause
		included := c.leaves(g.Included())
		if g.Operator == query.OpOr && len(included) > 0 {
			node.Should = included
			node.MinimumShouldMatch = 1
		} else {
			node.Must = included
		}
		node.MustNot = c.leaves(g.Excluded())
		out = append(out, node)
	}
	if len(out) == 1 {
		return out[0]
	}
	return Clause{Must: out}
}

func (c *Compiler) compileSimple(pq query.ParsedQuery) Clause {
	var node Clause

	if general := pq.GeneralTerms(); len(general) > 0 {
		node.Must = append(node.Must, Leaf(Match{
			Value:      strings.Join(general, " "),
			Fields:     c.fields.All,
			Mode:       BestFields,
			RequireAll: true,
		}))
	}
	for _, p := range pq.QuotedPhrases() {
		node.Must = append(node.Must, Leaf(Match{Value: p, Fields: c.fields.All, Mode: Phrase}))
	}
	for _, f := range query.AllFields() {
		node.Must = append(node.Must, c.fieldLeaves(f, pq.FieldTerms(f))...)
	}

	for _, v := range pq.ExcludedTerms() {
		node.MustNot = append(node.MustNot, c.leaf(query.Term{Type: query.TermGeneral, Value: v}))
	}
	for _, v := range pq.ExcludedPhrases() {
		node.MustNot = append(node.MustNot, c.leaf(query.Term{Type: query.TermPhrase, Value: v, Phrase: true}))
	}
	for _, f := range query.AllFields() {
		node.MustNot = append(node.MustNot, c.leaves(pq.ExcludedFieldTerms(f))...)
	}
	return node
}

// fieldLeaves emits one leaf for the unquoted values of a field and one
// phrase leaf per quoted value.
func (c *Compiler) fieldLeaves(f query.Field, terms []query.Term) []Clause {
	var (
		out   []Clause
		words []string
	)
	for _, t := range terms {
		if t.Phrase {
			out = append(out, c.leaf(t))
			continue
		}
		words = append(words, t.Value)
	}
	if len(words) > 0 {
		field := c.target(f)
		out = append([]Clause{Leaf(Match{
			Value:      strings.Join(words, " "),
			Fields:     []string{field},
			Mode:       BestFields,
			RequireAll: true,
		})}, out...)
	}
	return out
}

func (c *Compiler) leaves(terms []query.Term) []Clause {
	if len(terms) == 0 {
		return nil
	}
	out := make([]Clause, 0, len(terms))
	for _, t := range terms {
		out = append(out, c.leaf(t))
	}
	return out
}

func (c *Compiler) leaf(t query.Term) Clause {
	m := Match{Value: t.Value, Fields: c.fields.All, Mode: BestFields, RequireAll: true}
	if t.Type == query.TermField {
		m.Fields = []string{c.target(t.Field)}
	}
	if t.Phrase {
		m.Mode = Phrase
		m.RequireAll = false
	}
	return Leaf(m)
}

func (c *Compiler) target(f query.Field) string {
	if name, ok := c.fields.Scoped[f]; ok {
		return name
	}
	return f.String()
}
