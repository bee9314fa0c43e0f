package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so a
// repository can run against the pool or inside a transaction unchanged.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ProbeAtomic reports whether the backend can open a write transaction.
// SQLite always can unless the driver or DSN disables it; deployments that
// swap this store for a server backend use the same probe at startup to pick
// the sequential executor instead.
func (db *DB) ProbeAtomic(ctx context.Context) bool {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false
	}
	_ = tx.Rollback()
	return true
}

// isFKViolation detects a foreign key constraint failure from the driver.
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isTxUnsupported detects a backend that rejects transactions as a
// capability, as opposed to a connection or request failure.
func isTxUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "transactions not supported") ||
		strings.Contains(msg, "transactions are not supported")
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations are applied from the embedded migrations package.
func (db *DB) RunMigrations() error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Schema is the initial schema, kept in sync with migrations/001_initial_schema.up.sql.
const Schema = `
-- Projects table. Reads and writes are always scoped to owner_id.
CREATE TABLE projects (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner_id TEXT NOT NULL,
    logo_file_id TEXT REFERENCES files(id),
    logo_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_owner_projects ON projects(owner_id);

-- Tasks table. total_hours is the running counter advanced by the time-log
-- workflow; it is never decremented.
CREATE TABLE tasks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    project_id TEXT NOT NULL REFERENCES projects(id),
    assigned_to TEXT,
    status TEXT,
    total_hours REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_project_tasks ON tasks(project_id);

-- File metadata. Bytes live on disk; liveness marks soft deletion.
CREATE TABLE files (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    filepath TEXT NOT NULL,
    project_id TEXT NOT NULL REFERENCES projects(id),
    user_id TEXT NOT NULL,
    added_by TEXT NOT NULL,
    added_on TIMESTAMP NOT NULL,
    updated_by TEXT,
    updated_on TIMESTAMP,
    liveness TEXT NOT NULL DEFAULT 'active' CHECK(liveness IN ('active', 'deleted'))
);
CREATE INDEX idx_project_files ON files(project_id);
CREATE INDEX idx_user_files ON files(user_id);
CREATE INDEX idx_file_liveness ON files(liveness);

-- Time logs.
CREATE TABLE time_logs (
    id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL REFERENCES tasks(id),
    user_id TEXT NOT NULL,
    hours REAL NOT NULL CHECK(hours > 0),
    date TIMESTAMP NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    liveness TEXT NOT NULL DEFAULT 'active' CHECK(liveness IN ('active', 'deleted')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_task_time_logs ON time_logs(task_id);
CREATE INDEX idx_time_log_date ON time_logs(date);
CREATE INDEX idx_time_log_liveness ON time_logs(liveness);

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    description TEXT,
    created_at TIMESTAMP NOT NULL,
    last_used TIMESTAMP
);
CREATE INDEX idx_user_keys ON api_keys(user_id);
`
