package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrTableNotFound = errors.New("db: table not found")
)

// Op constants name the backend command for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpPing        = "PING"
	OpHSet        = "HSET"

	OpESCreateIndex = "indices.create"
	OpESDeleteIndex = "indices.delete"
	OpESIndexExists = "indices.exists"
	OpESSearch      = "_search"
	OpESBulk        = "_bulk"

	OpSelect = "SELECT"
	OpCount  = "COUNT"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
