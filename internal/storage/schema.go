package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the entries table and its newest-first index.
// They are idempotent and run on every open; there is no version table.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL DEFAULT (datetime('now')),
		content TEXT NOT NULL,
		mood TEXT,
		context TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp DESC)`,
}

// optionalColumns were added after the first release; databases created
// before that only have id, timestamp and content.
var optionalColumns = []string{"mood", "context"}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	existing, err := columns(ctx, db, "entries")
	if err != nil {
		return err
	}
	for _, col := range optionalColumns {
		if existing[col] {
			continue
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE entries ADD COLUMN %s TEXT`, col)); err != nil {
			return fmt.Errorf("adding column %s: %w", col, err)
		}
	}
	return nil
}

func columns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
