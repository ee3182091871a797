package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// History is an append-only log of delivered notifications, kept in
// SQLite. It is an audit trail only: the scheduler's dedup tracker is
// deliberately not backed by it, so scheduled sends stay at-least-once
// across restarts.
type History struct {
	db *sql.DB
}

const historySchema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	at        TEXT    NOT NULL,
	user_id   INTEGER NOT NULL,
	"trigger" TEXT    NOT NULL,
	kind      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS deliveries_at ON deliveries(at);
`

// DeliveryKind distinguishes scheduled sends from on-demand test sends.
const (
	DeliveryScheduled = "scheduled"
	DeliveryTest      = "test"
)

func OpenHistory(path string, busyTimeout time.Duration) (*History, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if busyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

func (h *History) Append(ctx context.Context, at time.Time, userID int64, trigger, kind string) error {
	if h == nil || h.db == nil {
		return ErrDisabled
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO deliveries(at, user_id, "trigger", kind) VALUES(?,?,?,?)`,
		at.UTC().Format(time.RFC3339), userID, trigger, kind,
	)
	return err
}

// CountSince reports how many deliveries happened at or after since.
func (h *History) CountSince(ctx context.Context, since time.Time) (int, error) {
	if h == nil || h.db == nil {
		return 0, ErrDisabled
	}
	var n int
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE at >= ?`,
		since.UTC().Format(time.RFC3339),
	).Scan(&n)
	return n, err
}

// Prune drops rows older than cutoff and returns how many were removed.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	if h == nil || h.db == nil {
		return 0, ErrDisabled
	}
	res, err := h.db.ExecContext(ctx,
		`DELETE FROM deliveries WHERE at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
