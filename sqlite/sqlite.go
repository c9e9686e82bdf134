// Package sqlite provides SQLite-based storage implementations for woocrawl services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string

	// Now returns the current time. Overridable in tests.
	Now func() time.Time
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{
		path: path,
		Now:  time.Now,
	}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// now returns the current time in UTC, truncated to the stored precision.
func (db *DB) now() time.Time {
	return db.Now().UTC().Truncate(time.Second)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			document_type TEXT NOT NULL DEFAULT '',
			publication_date TEXT,
			summary TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			keywords TEXT NOT NULL DEFAULT '[]',
			case_references TEXT NOT NULL DEFAULT '[]',
			entities TEXT NOT NULL DEFAULT '[]',
			metadata TEXT NOT NULL DEFAULT '{}',
			content TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			file TEXT NOT NULL DEFAULT '{}',
			is_processed INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			last_checked_at TEXT,
			processed_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_is_processed ON documents(is_processed);

		CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'overig',
			category TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '{}',
			details_processed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS addresses (
			organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			straat TEXT NOT NULL DEFAULT '',
			huisnummer TEXT NOT NULL DEFAULT '',
			postbus TEXT NOT NULL DEFAULT '',
			postcode TEXT NOT NULL DEFAULT '',
			plaats TEXT NOT NULL DEFAULT '',
			full_address TEXT NOT NULL DEFAULT '',
			UNIQUE (organization_id, type)
		);

		CREATE TABLE IF NOT EXISTS relations (
			organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			relatie_type TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			related_id TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_relations_organization_id ON relations(organization_id);

		CREATE TABLE IF NOT EXISTS pid_organizations (
			id TEXT PRIMARY KEY,
			dc_identifier TEXT NOT NULL UNIQUE,
			naam TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pid_dossiers (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL REFERENCES pid_organizations(id) ON DELETE CASCADE,
			dc_identifier TEXT NOT NULL,
			dc_title TEXT NOT NULL DEFAULT '',
			dc_type TEXT NOT NULL DEFAULT '',
			dc_date TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (organization_id, dc_identifier)
		);

		CREATE TABLE IF NOT EXISTS pid_documents (
			id TEXT PRIMARY KEY,
			dossier_id TEXT NOT NULL REFERENCES pid_dossiers(id) ON DELETE CASCADE,
			dc_identifier TEXT NOT NULL,
			dc_title TEXT NOT NULL DEFAULT '',
			dc_type TEXT NOT NULL DEFAULT '',
			dc_date TEXT,
			url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (dossier_id, dc_identifier)
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
