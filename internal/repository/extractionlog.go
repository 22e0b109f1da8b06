// Package repository persists one log row per processed document so
// operators can audit routing decisions and confidence over time.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KeyCoreSH/extractbrowser/constants"
)

// Schema for the extraction_log table. Applied by Init.
const Schema = `
CREATE TABLE IF NOT EXISTS extraction_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	req_id TEXT NOT NULL,
	filename TEXT,
	document_type TEXT NOT NULL,
	source TEXT NOT NULL,
	degraded INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	confidence REAL NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extraction_log_created ON extraction_log(created_at);
CREATE INDEX IF NOT EXISTS idx_extraction_log_type ON extraction_log(document_type);
`

// LogEntry is one processed-document record.
type LogEntry struct {
	ID           int64
	ReqID        string
	Filename     string
	DocumentType string
	// Source is "native" or "ocr".
	Source   string
	Degraded bool
	Status     constants.LogStatus
	Confidence float64
	ElapsedMS  int64
	CreatedAt  time.Time
}

// StatusFor maps pipeline outcome flags to a log status.
func StatusFor(outerSuccess, structured bool) constants.LogStatus {
	switch {
	case !outerSuccess:
		return constants.LogStatusFailed
	case !structured:
		return constants.LogStatusDegraded
	default:
		return constants.LogStatusSuccess
	}
}

// Store wraps the SQLite extraction log.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the log database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent uploads.
	db.SetMaxOpenConns(1)

	s := NewStore(db, logger)
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing connection. The caller owns its lifecycle
// unless Close is used.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, log: logger}
}

// Init creates the extraction_log table if it does not exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Record inserts one entry and returns its row id. A zero CreatedAt is
// stamped with the current time.
func (s *Store) Record(ctx context.Context, e LogEntry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_log
			(req_id, filename, document_type, source, degraded, status, confidence, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ReqID, e.Filename, e.DocumentType, e.Source, boolToInt(e.Degraded),
		string(e.Status), e.Confidence, e.ElapsedMS, e.CreatedAt.Unix())
	if err != nil {
		s.log.Error("repository.record.failed", "req_id", e.ReqID, "error", err)
		return 0, fmt.Errorf("insert log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.log.Debug("repository.record.ok", "id", id, "req_id", e.ReqID, "status", e.Status)
	return id, nil
}

// List returns the most recent entries, newest first. limit <= 0 means
// a default page of 100.
func (s *Store) List(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, req_id, filename, document_type, source, degraded, status, confidence, elapsed_ms, created_at
		FROM extraction_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var degraded int
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.ReqID, &e.Filename, &e.DocumentType, &e.Source,
			&degraded, &e.Status, &e.Confidence, &e.ElapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.Degraded = degraded != 0
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByStatus aggregates entries per status for the health endpoint.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM extraction_log GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
