// Package db persists savegames, race history, and the leaderboard in a
// local SQLite database.
package db

import (
	"database/sql"
	"fmt"

	"car-flipper/internal/logger"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs
// migrations. Use ":memory:" for an ephemeral database.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS save_slots (
				slot       INTEGER PRIMARY KEY,
				alias      TEXT NOT NULL,
				day        INTEGER NOT NULL,
				level      INTEGER NOT NULL,
				money      INTEGER NOT NULL,
				currency   TEXT NOT NULL,
				difficulty TEXT NOT NULL,
				state_json TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS race_history (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				slot       INTEGER NOT NULL,
				timestamp  TEXT NOT NULL,
				kind       TEXT NOT NULL,
				event_id   TEXT NOT NULL,
				car_model  TEXT NOT NULL,
				car_perf   INTEGER NOT NULL,
				won        INTEGER NOT NULL,
				failed_part TEXT,
				entry_fee  INTEGER NOT NULL,
				prize      INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_race_history_slot ON race_history(slot, timestamp);

			INSERT INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	if version < 2 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS leaderboard (
				alias      TEXT PRIMARY KEY,
				net_worth  INTEGER NOT NULL,
				level      INTEGER NOT NULL,
				season     INTEGER NOT NULL,
				league_rank INTEGER NOT NULL,
				champion   INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			);

			INSERT INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
	}

	return nil
}
