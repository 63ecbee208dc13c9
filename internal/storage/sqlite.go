package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the tool call journal. The MCP server appends to it while tmapctl
// history reads and prunes the same file, so it runs in WAL mode with a busy
// timeout.
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Open opens the journal at path, creating it and any missing parent
// directories on first use.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	db := &DB{DB: sqlDB, logger: logger}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("prepare journal schema: %w", err)
	}

	var calls int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM calls`).Scan(&calls); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("count journal entries: %w", err)
	}
	logger.Info("call journal opened", "path", path, "calls", calls)
	return db, nil
}
