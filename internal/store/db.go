// Package store provides SQLite-backed persistence for restoration items,
// HVAC zones, and intake-file checksums. Items and zones are independent
// aggregates: there is no cross-table cascade logic. Derived fields
// (viability scores, contamination paths) are never stored.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	id               TEXT PRIMARY KEY,
	claim_id         TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	material         TEXT NOT NULL DEFAULT '',
	age_years        REAL,
	original_value   REAL NOT NULL DEFAULT 0,
	current_value    REAL NOT NULL DEFAULT 0,
	restoration_cost REAL NOT NULL DEFAULT 0,
	replacement_cost REAL NOT NULL DEFAULT 0,
	damage_types     TEXT NOT NULL DEFAULT '[]',
	damage_extent    TEXT NOT NULL DEFAULT '',
	sentimental      TEXT NOT NULL DEFAULT 'none',
	risk_further     TEXT NOT NULL DEFAULT 'none',
	risk_health      TEXT NOT NULL DEFAULT 'none',
	risk_structural  TEXT NOT NULL DEFAULT 'none',
	restoration_days INTEGER NOT NULL DEFAULT 1,
	replacement_days INTEGER NOT NULL DEFAULT 1,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_claim ON items(claim_id);

CREATE TABLE IF NOT EXISTS zones (
	id                  TEXT PRIMARY KEY,
	claim_id            TEXT NOT NULL DEFAULT '',
	name                TEXT NOT NULL DEFAULT '',
	rooms               TEXT NOT NULL DEFAULT '[]',
	return_air_location TEXT NOT NULL DEFAULT '',
	supply_vents        TEXT NOT NULL DEFAULT '[]',
	contamination_level TEXT NOT NULL DEFAULT 'none',
	airflow_direction   TEXT NOT NULL DEFAULT 'supply',
	updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_zones_claim ON zones(claim_id);

CREATE TABLE IF NOT EXISTS intake_files (
	path     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with store-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
