package relational

import "github.com/kailas-cloud/transcripts/internal/domain/search/predicate"

// mysqlDialect stores committees as a JSON array.
type mysqlDialect struct{}

func (mysqlDialect) Backend() predicate.Backend    { return predicate.MySQL }
func (mysqlDialect) Placeholder() PlaceholderStyle { return PlaceholderQuestion }

func (mysqlDialect) text(column string) string {
	if column == predicate.ColumnCommittees {
		return "COALESCE(CAST(committees AS CHAR), '')"
	}
	return textOf(column)
}

func (d mysqlDialect) Leaf(b *Builder, l predicate.Leaf) string {
	switch l.Operator {
	case predicate.Substring:
		// binary comparison keeps the test case-sensitive under *_ci collations
		return "INSTR(CAST(" + d.text(l.Column) + " AS BINARY), CAST(" + b.Arg(l.Value) + " AS BINARY)) > 0"
	case predicate.SubstringFold:
		return "LOWER(" + d.text(l.Column) + ") LIKE LOWER(" + b.Arg(containsPattern(l.Value)) + ") ESCAPE '" + likeEscape + "'"
	case predicate.ArrayHas, predicate.JSONContains:
		if l.Column != predicate.ColumnCommittees {
			return d.text(l.Column) + " = " + b.Arg(l.Value)
		}
		return "COALESCE(JSON_CONTAINS(committees, JSON_QUOTE(" + b.Arg(l.Value) + ")), 0) = 1"
	case predicate.Pattern:
		if l.Column == predicate.ColumnCommittees {
			return "JSON_SEARCH(committees, 'one', " + b.Arg(l.Value) + ") IS NOT NULL"
		}
		return d.text(l.Column) + " LIKE " + b.Arg(l.Value)
	default:
		return "1=0"
	}
}

func (mysqlDialect) DateParam(b *Builder, day string) string { return b.Arg(day) }

func (mysqlDialect) CommitteesColumn() string {
	return "COALESCE(CAST(committees AS CHAR), '[]')"
}

func (mysqlDialect) DateColumn() string { return "DATE_FORMAT(date, '%Y-%m-%d')" }

func (mysqlDialect) DecodeCommittees(raw string) ([]string, error) { return decodeJSONList(raw) }

func (mysqlDialect) CreateTable(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
  id           BIGINT AUTO_INCREMENT PRIMARY KEY,
  title        TEXT,
  content      MEDIUMTEXT,
  speaker      VARCHAR(255),
  meeting_name VARCHAR(512),
  committees   JSON,
  date         DATE
) DEFAULT CHARSET=utf8mb4`
}
