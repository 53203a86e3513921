package relational

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUndefinedTable      = "42P01"
	mysqlNoSuchTable      = 1146
	sqliteNoSuchTableText = "no such table"
)

// isTableNotFound reports whether err means the transcript table is missing.
func isTableNotFound(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}
	return err != nil && strings.Contains(err.Error(), sqliteNoSuchTableText)
}
