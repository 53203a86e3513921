package predicate

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/transcripts/internal/domain/search/query"
)

// Backend is a relational storage engine. Backends differ in how the
// committees list is stored and therefore which partial-match test is valid.
type Backend int

// Supported backends.
const (
	// Postgres stores committees as text[].
	Postgres Backend = iota
	// MySQL stores committees as a JSON array.
	MySQL
	// SQLite stores committees as delimited text.
	SQLite
)

func (b Backend) String() string {
	switch b {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps a config value to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

// Transcript table columns.
const (
	ColumnTitle      = "title"
	ColumnContent    = "content"
	ColumnSpeaker    = "speaker"
	ColumnMeeting    = "meeting_name"
	ColumnCommittees = "committees"
)

// SearchColumns are tested by unscoped terms, in this order.
func SearchColumns() []string {
	return []string{ColumnTitle, ColumnContent, ColumnSpeaker, ColumnMeeting, ColumnCommittees}
}

// ColumnFor returns the column behind a query field.
func ColumnFor(f query.Field) (string, bool) {
	switch f {
	case query.FieldTitle:
		return ColumnTitle, true
	case query.FieldSpeaker:
		return ColumnSpeaker, true
	case query.FieldMeeting:
		return ColumnMeeting, true
	case query.FieldCommittee:
		return ColumnCommittees, true
	default:
		return "", false
	}
}

// Strategy builds the per-backend contains test for a column.
type Strategy interface {
	Backend() Backend
	Contains(column, value string) Leaf
}

// StrategyFor returns the strategy of b. Unknown backends use the most
// conservative one, plain substring.
func StrategyFor(b Backend) Strategy {
	switch b {
	case Postgres:
		return postgresStrategy{}
	case MySQL:
		return mysqlStrategy{}
	default:
		return sqliteStrategy{}
	}
}

// Contains builds the contains test for column on backend b.
func Contains(column, value string, b Backend) Predicate {
	return NewLeaf(StrategyFor(b).Contains(column, value))
}

type postgresStrategy struct{}

func (postgresStrategy) Backend() Backend { return Postgres }

// Contains on committees is element equality; partial labels do not match.
func (postgresStrategy) Contains(column, value string) Leaf {
	if column == ColumnCommittees {
		return Leaf{Column: column, Value: value, Operator: ArrayHas}
	}
	return Leaf{Column: column, Value: value, Operator: SubstringFold}
}

type mysqlStrategy struct{}

func (mysqlStrategy) Backend() Backend { return MySQL }

// Contains on committees is JSON containment of the whole label.
func (mysqlStrategy) Contains(column, value string) Leaf {
	if column == ColumnCommittees {
		return Leaf{Column: column, Value: value, Operator: JSONContains}
	}
	return Leaf{Column: column, Value: value, Operator: SubstringFold}
}

type sqliteStrategy struct{}

func (sqliteStrategy) Backend() Backend { return SQLite }

// Contains is a case-sensitive substring test on every column, committees
// included, since they are stored as delimited text.
func (sqliteStrategy) Contains(column, value string) Leaf {
	return Leaf{Column: column, Value: value, Operator: Substring}
}
