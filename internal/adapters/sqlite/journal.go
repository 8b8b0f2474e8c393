package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

const schemaVersion = "1"

// Journal implements ports.Journal using SQLite
type Journal struct {
	db     *sql.DB
	dbPath string
}

// Ensure Journal implements ports.Journal
var _ ports.Journal = (*Journal)(nil)

// Open opens (creating if needed) the journal database at dbPath
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// WAL lets a TUI read history while a CLI run is recording
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS operations (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			success INTEGER NOT NULL,
			message TEXT NOT NULL,
			backup_path TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_operations_started ON operations(started_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Journal{db: db, dbPath: dbPath}, nil
}

// Path returns the database file
func (j *Journal) Path() string {
	return j.dbPath
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record stores one executor run
func (j *Journal) Record(ctx context.Context, e domain.JournalEntry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO operations
			(id, operation, started_at, finished_at, success, message, backup_path, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Operation), e.StartedAt.UnixMilli(), e.FinishedAt.UnixMilli(),
		e.Success, e.Message, e.BackupPath, e.Summary)
	if err != nil {
		return fmt.Errorf("failed to record operation: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, operation, started_at, finished_at, success, message, backup_path, summary
		FROM operations
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		var op string
		var started, finished int64
		if err := rows.Scan(&e.ID, &op, &started, &finished, &e.Success, &e.Message, &e.BackupPath, &e.Summary); err != nil {
			return nil, err
		}
		e.Operation = domain.Operation(op)
		e.StartedAt = time.UnixMilli(started).UTC()
		e.FinishedAt = time.UnixMilli(finished).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
