package db

import (
	"log/slog"

	"github.com/glebarez/sqlite"
)

// NewSQLiteConnection opens a SQLite database through the pure Go driver.
// The pool is pinned to one connection so writers never contend for the file
// lock and shared in-memory databases survive between queries.
func NewSQLiteConnection(dsn string) (*Database, error) {
	database, err := open(sqlite.Open(dsn), poolSettings{maxOpen: 1})
	if err != nil {
		return nil, err
	}

	slog.Info("SQLite connection established", "dsn", dsn)
	return database, nil
}
