// Package store provides SQLite-backed persistence for the action
// journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gopalmandloi007/tradedeck/internal/orders"
)

// JournalStore records every order action outcome in SQLite. It is an
// audit trail: rows are only ever appended.
type JournalStore struct {
	db *sql.DB
}

// NewJournalStore opens (creating if needed) the journal database.
func NewJournalStore(dbPath string) (*JournalStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &JournalStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *JournalStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS action_journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		broker TEXT NOT NULL,
		action TEXT NOT NULL,
		symbol TEXT,
		order_id TEXT,
		accepted INTEGER NOT NULL,
		message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON action_journal(timestamp);
	CREATE INDEX IF NOT EXISTS idx_journal_order ON action_journal(order_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one action outcome.
func (s *JournalStore) Record(ctx context.Context, entry orders.JournalEntry) error {
	accepted := 0
	if entry.Accepted {
		accepted = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO action_journal (timestamp, broker, action, symbol, order_id, accepted, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Time.UTC(), entry.Broker, entry.Action, entry.Symbol,
		entry.OrderID, accepted, entry.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// Recent returns the newest journal entries, most recent first.
func (s *JournalStore) Recent(ctx context.Context, limit int) ([]orders.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, broker, action, symbol, order_id, accepted, message
		FROM action_journal
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []orders.JournalEntry
	for rows.Next() {
		var e orders.JournalEntry
		var ts time.Time
		var accepted int
		if err := rows.Scan(&ts, &e.Broker, &e.Action, &e.Symbol, &e.OrderID, &accepted, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Time = ts
		e.Accepted = accepted == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *JournalStore) Close() error {
	return s.db.Close()
}

// Ensure JournalStore satisfies the dispatcher's journal contract.
var _ orders.Journal = (*JournalStore)(nil)
