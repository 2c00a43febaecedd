package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and schema flavour
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB wraps a database connection together with a statement builder for its dialect
type DB struct {
	*sql.DB
	Dialect Dialect
	Builder squirrel.StatementBuilderType
}

// Open connects to the datastore and enables the dialect's integrity settings
func Open(dialect Dialect, dsn string) (*DB, error) {
	var builder squirrel.StatementBuilderType
	switch dialect {
	case SQLite:
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	case Postgres:
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		// one connection: pragmas are per connection and ":memory:" is per connection too
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{DB: db, Dialect: dialect, Builder: builder}, nil
}

// Migrate creates the sessions and bids tables when missing
func (db *DB) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if db.Dialect == Postgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Timestamps are stored as epoch milliseconds in both dialects.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    item_name TEXT NOT NULL,
    item_description TEXT NOT NULL DEFAULT '',
    starting_price REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK(status IN ('active', 'completed')),
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

CREATE TABLE IF NOT EXISTS bids (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    amount REAL NOT NULL DEFAULT 0 CHECK(amount >= 0),
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (session_id, name_key)
);
CREATE INDEX IF NOT EXISTS idx_bids_session ON bids(session_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    item_name TEXT NOT NULL,
    item_description TEXT NOT NULL DEFAULT '',
    starting_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK(status IN ('active', 'completed')),
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

CREATE TABLE IF NOT EXISTS bids (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(amount >= 0),
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    UNIQUE (session_id, name_key)
);
CREATE INDEX IF NOT EXISTS idx_bids_session ON bids(session_id);
`
