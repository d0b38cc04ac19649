// Package store persists run history in a local SQLite database.
package store

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

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/pipeline"
)

// Store is the SQLite-backed run history. It is append-only from the
// pipeline's point of view: runs are recorded once and never updated.
type Store struct {
	db *sql.DB
}

// Run is one persisted run record.
type Run struct {
	ID            int64     `json:"id"`
	Mode          string    `json:"mode"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	WordCount     int       `json:"wordCount"`
	ItemCount     int       `json:"itemCount"`
	SchemaPass    bool      `json:"schemaPass"`
	WordLimitPass bool      `json:"wordLimitPass"`
	Coverage      int       `json:"coverage"`
	Repaired      bool      `json:"repaired"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Stats is the aggregate view over all recorded runs.
type Stats struct {
	TotalRuns   int            `json:"totalRuns"`
	PassRate    int            `json:"passRate"` // % of schema-passing runs
	RepairRate  int            `json:"repairRate"`
	AvgWords    int            `json:"avgWords"`
	AvgCoverage int            `json:"avgCoverage"`
	ByMode      map[string]int `json:"byMode"`
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("missing db path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	mode            TEXT NOT NULL,
	provider        TEXT NOT NULL DEFAULT '',
	model           TEXT NOT NULL DEFAULT '',
	word_count      INTEGER NOT NULL,
	item_count      INTEGER NOT NULL,
	schema_pass     INTEGER NOT NULL,
	word_limit_pass INTEGER NOT NULL,
	coverage        INTEGER NOT NULL,
	repaired        INTEGER NOT NULL,
	created_at_ms   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AppendRun records one completed run.
func (s *Store) AppendRun(ctx context.Context, rec pipeline.RunRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (mode, provider, model, word_count, item_count, schema_pass, word_limit_pass, coverage, repaired, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Mode, rec.Provider, rec.Model, rec.WordCount, rec.ItemCount,
		boolInt(rec.SchemaPass), boolInt(rec.WordLimitPass), rec.Coverage,
		boolInt(rec.Repaired), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("append run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, mode, provider, model, word_count, item_count, schema_pass, word_limit_pass, coverage, repaired, created_at_ms
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var schemaPass, wordLimitPass, repaired int
		var createdMs int64
		if err := rows.Scan(&r.ID, &r.Mode, &r.Provider, &r.Model, &r.WordCount, &r.ItemCount,
			&schemaPass, &wordLimitPass, &r.Coverage, &repaired, &createdMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.SchemaPass = schemaPass != 0
		r.WordLimitPass = wordLimitPass != 0
		r.Repaired = repaired != 0
		r.CreatedAt = time.UnixMilli(createdMs).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ReadStats computes aggregates over the whole run history.
func (s *Store) ReadStats(ctx context.Context) (*Stats, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	stats := &Stats{ByMode: make(map[string]int)}

	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(AVG(schema_pass) * 100, 0),
       COALESCE(AVG(repaired) * 100, 0),
       COALESCE(AVG(word_count), 0),
       COALESCE(AVG(coverage), 0)
FROM runs`)

	var passRate, repairRate, avgWords, avgCoverage float64
	if err := row.Scan(&stats.TotalRuns, &passRate, &repairRate, &avgWords, &avgCoverage); err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	stats.PassRate = int(passRate + 0.5)
	stats.RepairRate = int(repairRate + 0.5)
	stats.AvgWords = int(avgWords + 0.5)
	stats.AvgCoverage = int(avgCoverage + 0.5)

	rows, err := s.db.QueryContext(ctx, `SELECT mode, COUNT(*) FROM runs GROUP BY mode`)
	if err != nil {
		return nil, fmt.Errorf("read mode counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var mode string
		var count int
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, fmt.Errorf("scan mode count: %w", err)
		}
		stats.ByMode[mode] = count
	}
	return stats, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
