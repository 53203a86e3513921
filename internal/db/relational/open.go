package relational

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// SQLite driver names. DriverSQLite3 (mattn, cgo) must be registered by the
// binary.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
)

// Config holds relational connection parameters.
type Config struct {
	Backend       predicate.Backend
	Driver        string // sqlite only
	DSN           string
	Table         string
	ListDelimiter string // sqlite committees separator
}

func openDB(cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	switch cfg.Backend {
	case predicate.Postgres:
		pc, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		return stdlib.OpenDB(*pc), nil
	case predicate.MySQL:
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		conn, err := mysql.NewConnector(mc)
		if err != nil {
			return nil, fmt.Errorf("mysql connector: %w", err)
		}
		return sql.OpenDB(conn), nil
	case predicate.SQLite:
		driver := cfg.Driver
		if driver == "" {
			driver = DriverSQLite
		}
		if driver != DriverSQLite && driver != DriverSQLite3 {
			return nil, fmt.Errorf("unknown sqlite driver %q", driver)
		}
		return sql.Open(driver, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported backend %s", cfg.Backend)
	}
}
