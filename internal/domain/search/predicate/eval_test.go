package predicate

import (
	"path"
	"slices"
	"strings"
)

// row is an in-memory transcript used to evaluate predicates the way each
// backend would.
type row struct {
	Title      string
	Content    string
	Speaker    string
	Meeting    string
	Committees []string
}

func (r row) text(column string) string {
	switch column {
	case ColumnTitle:
		return r.Title
	case ColumnContent:
		return r.Content
	case ColumnSpeaker:
		return r.Speaker
	case ColumnMeeting:
		return r.Meeting
	case ColumnCommittees:
		return strings.Join(r.Committees, ",")
	default:
		return ""
	}
}

func eval(p Predicate, r row) bool {
	switch p.Kind {
	case KindLeaf:
		return evalLeaf(*p.Leaf, r)
	case KindNot:
		return !eval(p.Children[0], r)
	case KindOr:
		for _, c := range p.Children {
			if eval(c, r) {
				return true
			}
		}
		return false
	default:
		for _, c := range p.Children {
			if !eval(c, r) {
				return false
			}
		}
		return true
	}
}

func evalLeaf(l Leaf, r row) bool {
	switch l.Operator {
	case Substring:
		return strings.Contains(r.text(l.Column), l.Value)
	case SubstringFold:
		return strings.Contains(strings.ToLower(r.text(l.Column)), strings.ToLower(l.Value))
	case ArrayHas, JSONContains:
		if l.Column != ColumnCommittees {
			return r.text(l.Column) == l.Value
		}
		return slices.Contains(r.Committees, l.Value)
	case Pattern:
		glob := strings.NewReplacer("%", "*", "_", "?").Replace(l.Value)
		for _, c := range r.Committees {
			if ok, _ := path.Match(glob, c); ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}
