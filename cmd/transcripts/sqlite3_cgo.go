//go:build cgo

package main

// mattn/go-sqlite3 registers the "sqlite3" driver for database.driver: sqlite3.
import _ "github.com/mattn/go-sqlite3"
