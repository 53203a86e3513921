// Package predicate compiles a parsed query into a backend-aware AND/OR/NOT
// tree of field-contains tests for a relational store.
package predicate

import (
	"strconv"
	"strings"
)

// Operator is the comparison a leaf performs.
type Operator int

// Leaf operators.
const (
	// Substring is a case-sensitive substring test.
	Substring Operator = iota
	// SubstringFold is a case-insensitive substring test.
	SubstringFold
	// ArrayHas is exact element equality on an array column.
	ArrayHas
	// JSONContains is structural containment on a JSON array column.
	JSONContains
	// Pattern is a raw wildcard pattern; Value is used verbatim.
	Pattern
)

func (o Operator) String() string {
	switch o {
	case Substring:
		return "contains"
	case SubstringFold:
		return "icontains"
	case ArrayHas:
		return "array_has"
	case JSONContains:
		return "json_contains"
	case Pattern:
		return "pattern"
	default:
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
}

// Leaf is a single column test.
type Leaf struct {
	Column   string
	Value    string
	Operator Operator
}

func (l Leaf) String() string {
	return l.Operator.String() + "(" + l.Column + "," + strconv.Quote(l.Value) + ")"
}

// Kind is the node type of a Predicate.
type Kind int

// Node kinds.
const (
	KindAnd Kind = iota
	KindOr
	KindNot
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindNot:
		return "NOT"
	case KindLeaf:
		return "LEAF"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Predicate is a node of the filter tree. The zero value is an AND with no
// children: the empty, non-filtering predicate.
type Predicate struct {
	Kind     Kind
	Children []Predicate
	Leaf     *Leaf
}

// Empty returns the non-filtering predicate.
func Empty() Predicate { return Predicate{Kind: KindAnd} }

// IsEmpty reports whether p filters nothing.
func (p Predicate) IsEmpty() bool {
	return p.Kind == KindAnd && len(p.Children) == 0
}

// NewLeaf wraps a leaf into a predicate.
func NewLeaf(l Leaf) Predicate { return Predicate{Kind: KindLeaf, Leaf: &l} }

// And joins ps. Empty children are dropped, nested ANDs are inlined, and a
// single remaining child is returned as is.
func And(ps ...Predicate) Predicate {
	out := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		switch {
		case p.IsEmpty():
		case p.Kind == KindAnd:
			out = append(out, p.Children...)
		default:
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return Predicate{Kind: KindAnd, Children: out}
}

// Or joins ps. A single child is returned as is; an OR with no children
// matches nothing.
func Or(ps ...Predicate) Predicate {
	if len(ps) == 1 {
		return ps[0]
	}
	out := make([]Predicate, len(ps))
	copy(out, ps)
	return Predicate{Kind: KindOr, Children: out}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return Predicate{Kind: KindNot, Children: []Predicate{p}}
}

// Leaves returns every leaf in depth-first order.
func (p Predicate) Leaves() []Leaf {
	if p.Kind == KindLeaf {
		if p.Leaf == nil {
			return nil
		}
		return []Leaf{*p.Leaf}
	}
	var out []Leaf
	for _, c := range p.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// String renders the tree as AND(OR(icontains(title,"x"),...),NOT(...)).
func (p Predicate) String() string {
	var b strings.Builder
	p.write(&b)
	return b.String()
}

func (p Predicate) write(b *strings.Builder) {
	if p.Kind == KindLeaf {
		if p.Leaf != nil {
			b.WriteString(p.Leaf.String())
		}
		return
	}
	b.WriteString(p.Kind.String())
	b.WriteByte('(')
	for i, c := range p.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		c.write(b)
	}
	b.WriteByte(')')
}
