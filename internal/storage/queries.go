package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Call outcomes, matching the tmap client's result kinds.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// timeLayout is fixed-width UTC so stored timestamps sort as text.
const timeLayout = "2006-01-02 15:04:05.000"

// Call is one journaled tool invocation.
type Call struct {
	ID       int64
	Tool     string
	Args     string // JSON-encoded arguments
	Status   string
	Error    string
	Duration time.Duration
	CalledAt time.Time
}

// ToolStats aggregates the journal per tool.
type ToolStats struct {
	Tool       string
	Calls      int
	Empty      int
	Errors     int
	AvgLatency time.Duration
	LastCalled time.Time
}

// GetMetadata retrieves a value from the metadata table.
func (db *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetMetadata stores a key-value pair in the metadata table.
func (db *DB) SetMetadata(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`,
		key, value)
	return err
}

// RecordCall appends c to the journal and returns its row id. A zero
// CalledAt is stamped with the current time.
func (db *DB) RecordCall(ctx context.Context, c Call) (int64, error) {
	switch c.Status {
	case StatusOK, StatusEmpty, StatusError:
	default:
		return 0, fmt.Errorf("record call: unknown status %q", c.Status)
	}
	if c.CalledAt.IsZero() {
		c.CalledAt = time.Now()
	}
	if c.Args == "" {
		c.Args = "{}"
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO calls (tool, args, status, error, duration_ms, called_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Tool, c.Args, c.Status, c.Error, c.Duration.Milliseconds(),
		c.CalledAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("record call: %w", err)
	}
	return res.LastInsertId()
}

// RecentCalls returns up to limit journaled calls, newest first. An empty
// tool matches every tool.
func (db *DB) RecentCalls(ctx context.Context, tool string, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, tool, args, status, error, duration_ms, called_at
		FROM calls
		WHERE ? = '' OR tool = ?
		ORDER BY id DESC
		LIMIT ?`,
		tool, tool, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent calls: %w", err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		var (
			c        Call
			ms       int64
			calledAt string
		)
		if err := rows.Scan(&c.ID, &c.Tool, &c.Args, &c.Status, &c.Error, &ms, &calledAt); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		c.Duration = time.Duration(ms) * time.Millisecond
		if c.CalledAt, err = time.Parse(timeLayout, calledAt); err != nil {
			return nil, fmt.Errorf("parse called_at %q: %w", calledAt, err)
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// CallStats returns per-tool totals ordered by tool name.
func (db *DB) CallStats(ctx context.Context) ([]ToolStats, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT tool,
		       COUNT(*),
		       SUM(CASE WHEN status = 'empty' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END),
		       AVG(duration_ms),
		       MAX(called_at)
		FROM calls
		GROUP BY tool
		ORDER BY tool`)
	if err != nil {
		return nil, fmt.Errorf("query call stats: %w", err)
	}
	defer rows.Close()

	var stats []ToolStats
	for rows.Next() {
		var (
			s     ToolStats
			avgMS float64
			last  string
		)
		if err := rows.Scan(&s.Tool, &s.Calls, &s.Empty, &s.Errors, &avgMS, &last); err != nil {
			return nil, fmt.Errorf("scan call stats: %w", err)
		}
		s.AvgLatency = time.Duration(avgMS * float64(time.Millisecond))
		if s.LastCalled, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("parse called_at %q: %w", last, err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PruneCalls deletes journaled calls made before cutoff and returns how many
// were removed.
func (db *DB) PruneCalls(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM calls WHERE called_at < ?`,
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune calls: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		db.logger.Info("pruned call history", "removed", n, "before", cutoff)
	}
	return n, nil
}
