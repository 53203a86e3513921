package relational

import (
	"encoding/json"

	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// postgresDialect stores committees as text[].
type postgresDialect struct{}

func (postgresDialect) Backend() predicate.Backend    { return predicate.Postgres }
func (postgresDialect) Placeholder() PlaceholderStyle { return PlaceholderDollar }

func (postgresDialect) text(column string) string {
	if column == predicate.ColumnCommittees {
		return "COALESCE(array_to_string(committees, ','), '')"
	}
	return textOf(column)
}

func (d postgresDialect) Leaf(b *Builder, l predicate.Leaf) string {
	switch l.Operator {
	case predicate.Substring:
		return "strpos(" + d.text(l.Column) + ", " + b.Arg(l.Value) + ") > 0"
	case predicate.SubstringFold:
		return d.text(l.Column) + " ILIKE " + b.Arg(containsPattern(l.Value)) + " ESCAPE '" + likeEscape + "'"
	case predicate.ArrayHas, predicate.JSONContains:
		if l.Column != predicate.ColumnCommittees {
			return d.text(l.Column) + " = " + b.Arg(l.Value)
		}
		return "COALESCE(" + b.Arg(l.Value) + " = ANY(committees), false)"
	case predicate.Pattern:
		if l.Column == predicate.ColumnCommittees {
			return "EXISTS (SELECT 1 FROM unnest(committees) AS c WHERE c ILIKE " + b.Arg(l.Value) + ")"
		}
		return d.text(l.Column) + " ILIKE " + b.Arg(l.Value)
	default:
		return "1=0"
	}
}

func (postgresDialect) DateParam(b *Builder, day string) string { return b.Arg(day) + "::date" }

func (postgresDialect) CommitteesColumn() string {
	return "COALESCE(array_to_json(committees)::text, '[]')"
}

func (postgresDialect) DateColumn() string { return "to_char(date, 'YYYY-MM-DD')" }

func (postgresDialect) DecodeCommittees(raw string) ([]string, error) { return decodeJSONList(raw) }

func (postgresDialect) CreateTable(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
  id           BIGSERIAL PRIMARY KEY,
  title        TEXT,
  content      TEXT,
  speaker      TEXT,
  meeting_name TEXT,
  committees   TEXT[] NOT NULL DEFAULT '{}',
  date         DATE
)`
}

func decodeJSONList(raw string) ([]string, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
