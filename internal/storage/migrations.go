package storage

import "fmt"

// migrate applies the statements past the journal's user_version in one
// transaction and records the new version.
func (db *DB) migrate() error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= len(migrations) {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for i := version; i < len(migrations); i++ {
		if _, err := tx.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	db.logger.Debug("journal schema upgraded", "from", version, "to", len(migrations))
	return nil
}

var migrations = []string{
	// One row per tool invocation
	`CREATE TABLE IF NOT EXISTS calls (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		tool        TEXT NOT NULL,
		args        TEXT NOT NULL DEFAULT '{}',
		status      TEXT NOT NULL CHECK (status IN ('ok', 'empty', 'error')),
		error       TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		called_at   TEXT NOT NULL
	)`,

	// Process metadata (last_started_at, server_version, etc.)
	`CREATE TABLE IF NOT EXISTS metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_calls_tool ON calls(tool)`,
	`CREATE INDEX IF NOT EXISTS idx_calls_called_at ON calls(called_at)`,
}
