// Package db owns the SQLite connection and schema migrations for persisted
// analysis reports. Stores live in internal/storage/sqlite and only see the
// *sql.DB handle.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the report database connection.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the SQLite database at path and applies the
// connection pragmas. Use ":memory:" for an ephemeral database in tests.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids table-lock races between concurrent stores.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
		PRAGMA foreign_keys = ON;
		PRAGMA synchronous = NORMAL;
	`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return &DB{sqlDB}, nil
}
