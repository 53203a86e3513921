// Package relational runs compiled predicates against the transcript table on
// Postgres, MySQL or SQLite.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// DefaultTable is the transcript table name.
const DefaultTable = "transcripts"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name can be spliced into SQL unquoted.
func ValidTableName(name string) bool { return tableNameRe.MatchString(name) }

// Row is one transcript row. Date is YYYY-MM-DD or empty.
type Row struct {
	ID          string
	Title       string
	Content     string
	Speaker     string
	MeetingName string
	Committees  []string
	Date        string
}

// Page is one page of rows plus the total match count.
type Page struct {
	Rows  []Row
	Total int
}

// Executor runs predicate searches over one table.
type Executor struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// Open connects to the configured backend. The connection is lazy; call Ping
// to verify it.
func Open(cfg Config) (*Executor, error) {
	sqlDB, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	e, err := New(sqlDB, cfg.Backend, cfg.Table, cfg.ListDelimiter)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return e, nil
}

// New wraps an open database handle.
func New(sqlDB *sql.DB, backend predicate.Backend, table, delim string) (*Executor, error) {
	if table == "" {
		table = DefaultTable
	}
	if !ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Executor{db: sqlDB, dialect: DialectFor(backend, delim), table: table}, nil
}

// Backend returns the backend the executor targets.
func (e *Executor) Backend() predicate.Backend { return e.dialect.Backend() }

// Dialect returns the SQL dialect in use.
func (e *Executor) Dialect() Dialect { return e.dialect }

// Table returns the table name.
func (e *Executor) Table() string { return e.table }

// Ping checks connectivity.
func (e *Executor) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (e *Executor) Close() error { return e.db.Close() }

// EnsureTable creates the transcript table if it does not exist.
func (e *Executor) EnsureTable(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, e.dialect.CreateTable(e.table)); err != nil {
		return fmt.Errorf("create table %s: %w", e.table, err)
	}
	return nil
}

// Search returns one page of rows matching q, newest first.
func (e *Executor) Search(ctx context.Context, q Query) (*Page, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	page, count := BuildSearch(e.dialect, e.table, q)

	var total int
	if err := e.db.QueryRowContext(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, e.wrap(db.OpCount, err)
	}
	if total == 0 {
		return &Page{}, nil
	}

	rows, err := e.db.QueryContext(ctx, page.SQL, page.Args...)
	if err != nil {
		return nil, e.wrap(db.OpSelect, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Row, 0, q.Limit)
	for rows.Next() {
		r, err := e.scanRow(rows)
		if err != nil {
			return nil, e.wrap(db.OpSelect, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, e.wrap(db.OpSelect, err)
	}
	return &Page{Rows: out, Total: total}, nil
}

// Scan streams every row in id order, batch rows at a time.
func (e *Executor) Scan(ctx context.Context, batch int, fn func([]Row) error) error {
	if batch <= 0 {
		batch = 500
	}
	st := BuildScan(e.dialect, e.table)
	rows, err := e.db.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return e.wrap(db.OpSelect, err)
	}
	defer func() { _ = rows.Close() }()

	buf := make([]Row, 0, batch)
	for rows.Next() {
		r, err := e.scanRow(rows)
		if err != nil {
			return e.wrap(db.OpSelect, err)
		}
		buf = append(buf, r)
		if len(buf) == batch {
			if err := fn(buf); err != nil {
				return err
			}
			buf = make([]Row, 0, batch)
		}
	}
	if err := rows.Err(); err != nil {
		return e.wrap(db.OpSelect, err)
	}
	if len(buf) > 0 {
		return fn(buf)
	}
	return nil
}

func (e *Executor) scanRow(rows *sql.Rows) (Row, error) {
	var (
		r          Row
		committees sql.NullString
		date       sql.NullString
	)
	if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.Speaker, &r.MeetingName, &committees, &date); err != nil {
		return Row{}, err
	}
	list, err := e.dialect.DecodeCommittees(committees.String)
	if err != nil {
		return Row{}, fmt.Errorf("decode committees of %s: %w", r.ID, err)
	}
	r.Committees = list
	r.Date = date.String
	return r, nil
}

func (e *Executor) wrap(op string, err error) error {
	if isTableNotFound(err) {
		return db.ErrTableNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return &db.Error{Op: op, Err: err}
}
