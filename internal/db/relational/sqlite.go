package relational

import (
	"strings"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// sqliteDialect stores committees as delimiter-joined text.
type sqliteDialect struct {
	delim string
}

func (sqliteDialect) Backend() predicate.Backend    { return predicate.SQLite }
func (sqliteDialect) Placeholder() PlaceholderStyle { return PlaceholderQuestion }

func (d sqliteDialect) Leaf(b *Builder, l predicate.Leaf) string {
	col := textOf(l.Column)
	switch l.Operator {
	case predicate.Substring:
		return "instr(" + col + ", " + b.Arg(l.Value) + ") > 0"
	case predicate.SubstringFold:
		return "lower(" + col + ") LIKE lower(" + b.Arg(containsPattern(l.Value)) + ") ESCAPE '" + likeEscape + "'"
	case predicate.ArrayHas, predicate.JSONContains:
		if l.Column != predicate.ColumnCommittees {
			return col + " = " + b.Arg(l.Value)
		}
		// whole-element match: wrap the list in delimiters on both sides
		return "instr(" + b.Arg(d.delim) + " || " + col + " || " + b.Arg(d.delim) + ", " + b.Arg(d.delim+l.Value+d.delim) + ") > 0"
	case predicate.Pattern:
		return col + " LIKE " + b.Arg(l.Value)
	default:
		return "1=0"
	}
}

func (sqliteDialect) DateParam(b *Builder, day string) string { return b.Arg(day) }

func (sqliteDialect) CommitteesColumn() string { return "COALESCE(committees, '')" }

func (sqliteDialect) DateColumn() string { return "COALESCE(date, '')" }

func (d sqliteDialect) DecodeCommittees(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return db.SplitList(raw, d.delim), nil
}

func (sqliteDialect) CreateTable(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
  id           INTEGER PRIMARY KEY,
  title        TEXT,
  content      TEXT,
  speaker      TEXT,
  meeting_name TEXT,
  committees   TEXT,
  date         TEXT
)`
}
