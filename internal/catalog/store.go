// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite index of every game title seen across
// extraction runs, with first/last sighting times and the run history.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/title-extractor/internal/progress"
	"github.com/pdiddy/title-extractor/pkg/types"
)

const timeFormat = time.RFC3339Nano

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
	log        *zap.Logger
	now        func() time.Time
}

// NewStore opens or creates the catalog database at cfg.DBPath and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig, log *zap.Logger) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = types.DefaultCatalogDB
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		db:         db,
		maxResults: cfg.MaxResults,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}

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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS titles (
			title TEXT PRIMARY KEY,
			payload_kind TEXT NOT NULL DEFAULT '',
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL,
			seen_count INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			count INTEGER NOT NULL,
			at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_at ON runs(at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingest run.
type IngestSummary struct {
	RunID   string
	Added   int
	Updated int
}

// Total returns the number of titles ingested.
func (s IngestSummary) Total() int {
	return s.Added + s.Updated
}

// Ingest records every title of rec in a single transaction. New titles
// are added; titles already present get their last sighting, seen count
// and payload kind refreshed. The run itself is recorded with input as
// its source.
func (s *Store) Ingest(ctx context.Context, input string, rec *progress.Record, w io.Writer) (IngestSummary, error) {
	titles, err := rec.TitleKeys()
	if err != nil {
		return IngestSummary{}, err
	}
	sort.Strings(titles)
	kinds := rec.PayloadKinds()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().Format(timeFormat)
	summary := IngestSummary{RunID: uuid.NewString()}

	for _, title := range titles {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM titles WHERE title = ?`, title,
		).Scan(&exists); err != nil {
			return IngestSummary{}, fmt.Errorf("looking up %q: %w", title, err)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO titles (title, payload_kind, first_seen, last_seen, seen_count)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(title) DO UPDATE SET
				payload_kind = excluded.payload_kind,
				last_seen = excluded.last_seen,
				seen_count = titles.seen_count + 1`,
			title, kinds[title], now, now,
		)
		if err != nil {
			return IngestSummary{}, fmt.Errorf("storing %q: %w", title, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, count, at) VALUES (?, ?, ?, ?)`,
		summary.RunID, input, len(titles), now,
	); err != nil {
		return IngestSummary{}, fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing ingest: %w", err)
	}

	s.log.Info("catalog ingest",
		zap.String("run_id", summary.RunID),
		zap.String("input", input),
		zap.Int("added", summary.Added),
		zap.Int("updated", summary.Updated))
	fmt.Fprintf(w, "added: %d, updated: %d, total: %d\n", summary.Added, summary.Updated, summary.Total())

	return summary, nil
}

// Runs returns the recorded ingest runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]types.CatalogRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, count, at FROM runs ORDER BY at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.CatalogRun
	for rows.Next() {
		var (
			r  types.CatalogRun
			at string
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.Count, &at); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.At, _ = time.Parse(timeFormat, at)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
