package relational

import (
	"strings"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// Query is one page of a predicate search.
type Query struct {
	Predicate predicate.Predicate
	Dates     filter.DateRange
	Offset    int
	Limit     int

	// CommitteePattern, when set, also requires a committee matching this
	// raw LIKE pattern (% and _ wildcards, no escape).
	CommitteePattern string
}

// Filter returns the predicate with the committee pattern ANDed in.
func (q Query) Filter() predicate.Predicate {
	if q.CommitteePattern == "" {
		return q.Predicate
	}
	return predicate.And(q.Predicate, predicate.NewLeaf(predicate.Leaf{
		Column:   predicate.ColumnCommittees,
		Value:    q.CommitteePattern,
		Operator: predicate.Pattern,
	}))
}

// Statement is rendered SQL with its bind arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Render renders p as a WHERE expression. An empty AND is always true and an
// empty OR is always false.
func Render(d Dialect, b *Builder, p predicate.Predicate) string {
	switch p.Kind {
	case predicate.KindLeaf:
		if p.Leaf == nil {
			return "1=1"
		}
		return d.Leaf(b, *p.Leaf)
	case predicate.KindNot:
		if len(p.Children) == 0 {
			return "1=0"
		}
		return "NOT (" + Render(d, b, p.Children[0]) + ")"
	case predicate.KindOr:
		return join(d, b, p.Children, " OR ", "1=0")
	default:
		return join(d, b, p.Children, " AND ", "1=1")
	}
}

func join(d Dialect, b *Builder, children []predicate.Predicate, sep, empty string) string {
	switch len(children) {
	case 0:
		return empty
	case 1:
		return Render(d, b, children[0])
	}
	parts := make([]string, len(children))
	for i, c := range children {
		s := Render(d, b, c)
		if c.Kind == predicate.KindAnd || c.Kind == predicate.KindOr {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// Where renders the predicate and the date bounds into one WHERE body.
func Where(d Dialect, b *Builder, p predicate.Predicate, dates filter.DateRange) string {
	var conds []string
	if !p.IsEmpty() {
		s := Render(d, b, p)
		if p.Kind == predicate.KindOr {
			s = "(" + s + ")"
		}
		conds = append(conds, s)
	}
	if from := dates.From(); from != nil {
		conds = append(conds, db.FieldDate+" >= "+d.DateParam(b, from.Format(filter.DateLayout)))
	}
	if to := dates.To(); to != nil {
		conds = append(conds, db.FieldDate+" <= "+d.DateParam(b, to.Format(filter.DateLayout)))
	}
	if len(conds) == 0 {
		return "1=1"
	}
	return strings.Join(conds, " AND ")
}

func selectList(d Dialect) string {
	return strings.Join([]string{
		"id",
		textOf(predicate.ColumnTitle),
		textOf(predicate.ColumnContent),
		textOf(predicate.ColumnSpeaker),
		textOf(predicate.ColumnMeeting),
		d.CommitteesColumn(),
		d.DateColumn(),
	}, ", ")
}

// BuildSearch renders the page query and its COUNT companion. Pages are
// ordered newest first.
func BuildSearch(d Dialect, table string, q Query) (page, count Statement) {
	pb := NewBuilder(d.Placeholder())
	where := Where(d, pb, q.Filter(), q.Dates)
	limit := pb.Arg(q.Limit)
	offset := pb.Arg(q.Offset)
	page = Statement{
		SQL: "SELECT " + selectList(d) + " FROM " + table +
			" WHERE " + where +
			" ORDER BY " + db.FieldDate + " DESC, id DESC LIMIT " + limit + " OFFSET " + offset,
		Args: pb.Args(),
	}

	cb := NewBuilder(d.Placeholder())
	count = Statement{
		SQL:  "SELECT COUNT(*) FROM " + table + " WHERE " + Where(d, cb, q.Filter(), q.Dates),
		Args: cb.Args(),
	}
	return page, count
}

// BuildScan renders a full-table read in id order.
func BuildScan(d Dialect, table string) Statement {
	return Statement{SQL: "SELECT " + selectList(d) + " FROM " + table + " ORDER BY id"}
}
