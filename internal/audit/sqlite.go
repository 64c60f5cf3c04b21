package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chatops-cli/chatops/internal/command"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore appends audit entries to a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the audit database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		input TEXT NOT NULL,
		command TEXT NOT NULL,
		source TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		dry_run BOOLEAN NOT NULL,
		failure TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_request ON audit_log(request_id);
	CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return nil
}

// Record appends one entry.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO audit_log (request_id, input, command, source, exit_code, duration_ms, dry_run, failure, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		e.RequestID, e.Input, e.Command, string(e.Source),
		e.ExitCode, e.Duration.Milliseconds(), e.DryRun, e.Failure, createdAt)
	return err
}

// Recent returns the latest entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT request_id, input, command, source, exit_code, duration_ms, dry_run, failure, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var source string
		var durationMs int64
		if err := rows.Scan(&e.RequestID, &e.Input, &e.Command, &source,
			&e.ExitCode, &durationMs, &e.DryRun, &e.Failure, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Source = sourceFromString(source)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sourceFromString(s string) command.Source {
	if s == string(command.SourcePlugin) {
		return command.SourcePlugin
	}
	return command.SourceLLM
}
