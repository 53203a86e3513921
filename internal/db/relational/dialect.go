package relational

import (
	"strings"

	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// Dialect renders predicate leaves and column projections for one backend.
type Dialect interface {
	Backend() predicate.Backend
	Placeholder() PlaceholderStyle
	Leaf(b *Builder, l predicate.Leaf) string
	// DateParam binds a YYYY-MM-DD bound for comparison with the date column.
	DateParam(b *Builder, day string) string
	// Projections select the committees and date columns as plain text.
	CommitteesColumn() string
	DateColumn() string
	DecodeCommittees(raw string) ([]string, error)
	CreateTable(table string) string
}

// DialectFor returns the dialect of backend. delim separates committees on
// SQLite and is ignored elsewhere.
func DialectFor(backend predicate.Backend, delim string) Dialect {
	switch backend {
	case predicate.Postgres:
		return postgresDialect{}
	case predicate.MySQL:
		return mysqlDialect{}
	default:
		if delim == "" {
			delim = defaultListDelimiter
		}
		return sqliteDialect{delim: delim}
	}
}

const defaultListDelimiter = ","

// likeEscape is the LIKE escape character on every dialect.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func containsPattern(s string) string { return "%" + escapeLike(s) + "%" }

// textOf is the NULL-safe text form of a plain column. Negated leaves on
// NULL columns must evaluate to true, not NULL.
func textOf(column string) string { return "COALESCE(" + column + ", '')" }
