// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists tool runs in a SQLite database so past
// conversions can be listed, filtered, and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nexus-tools/pkg/types"
)

const (
	dbFile            = "history.db"
	defaultMaxResults = 20
)

// Store manages the run history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// QueryOptions filters Recent and the exports. Zero values match all runs.
type QueryOptions struct {
	Tool       string
	Status     types.RunStatus
	Since      time.Time
	MaxResults int
}

// Open opens or creates dir/history.db and its schema.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory is not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			status TEXT NOT NULL,
			inputs TEXT,
			output_path TEXT,
			bytes INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_tool ON runs(tool)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and returns its id.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (tool, endpoint, status, inputs, output_path, bytes, duration_ms, error, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Tool,
		rec.Endpoint,
		string(rec.Status),
		strings.Join(rec.Inputs, "\n"),
		rec.OutputPath,
		rec.Bytes,
		rec.Duration.Milliseconds(),
		rec.Error,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run %s: %w", rec.Tool, err)
	}
	return res.LastInsertId()
}

// Recent returns runs matching opts, newest first.
func (s *Store) Recent(ctx context.Context, opts QueryOptions) ([]types.RunRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Tool != "" {
		where = append(where, "tool = ?")
		args = append(args, opts.Tool)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Status))
	}
	if !opts.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, opts.Since.UTC().Format(time.RFC3339Nano))
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, tool, endpoint, status, inputs, output_path, bytes, duration_ms, error, started_at FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []types.RunRecord
	for rows.Next() {
		var (
			rec                         types.RunRecord
			status, inputs, output, msg sql.NullString
			durationMS                  int64
			startedAt                   string
		)
		if err := rows.Scan(&rec.ID, &rec.Tool, &rec.Endpoint, &status, &inputs, &output, &rec.Bytes, &durationMS, &msg, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Status = types.RunStatus(status.String)
		if inputs.String != "" {
			rec.Inputs = strings.Split(inputs.String, "\n")
		}
		rec.OutputPath = output.String
		rec.Error = msg.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			rec.StartedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats counts runs per status.
func (s *Store) Stats(ctx context.Context) (map[types.RunStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	defer rows.Close()

	out := make(map[types.RunStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out[types.RunStatus(status)] = n
	}
	return out, rows.Err()
}

// Prune deletes runs that started before cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}
