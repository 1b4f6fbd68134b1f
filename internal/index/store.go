// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads curated catalog CSVs into a SQLite database so the
// catalog can be searched and filtered between curation passes.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// DefaultDBPath is the database file used when none is configured.
const DefaultDBPath = "litsurvey.db"

const defaultMaxResults = 50

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS papers (
			title_key TEXT PRIMARY KEY,
			idx INTEGER,
			title TEXT NOT NULL,
			year TEXT,
			relevant TEXT,
			comment TEXT,
			path TEXT,
			row_json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_idx ON papers(idx)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_relevant ON papers(relevant)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from an import run.
type ImportSummary struct {
	Inserted int
	Updated  int

	// Skipped counts rows with no title and rows identical to what is
	// already stored.
	Skipped int
}

// Total returns the number of rows processed.
func (s ImportSummary) Total() int {
	return s.Inserted + s.Updated + s.Skipped
}

// Import upserts every row of tbl keyed by its normalized title. The whole
// table is imported in one transaction.
func (s *Store) Import(ctx context.Context, tbl *catalog.Table, w io.Writer) (ImportSummary, error) {
	var summary ImportSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, row := range tbl.Rows {
		key := catalog.NormalizeTitle(row.Get(catalog.TitleColumn))
		if key == "" {
			fmt.Fprintf(w, "warning: row %d has no title, skipping\n", i+1)
			summary.Skipped++
			continue
		}

		rowJSON, err := json.Marshal(row)
		if err != nil {
			return summary, fmt.Errorf("encoding row %d: %w", i+1, err)
		}

		var stored string
		err = tx.QueryRowContext(ctx,
			`SELECT row_json FROM papers WHERE title_key = ?`, key,
		).Scan(&stored)
		switch {
		case err == nil && stored == string(rowJSON):
			summary.Skipped++
			continue
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return summary, fmt.Errorf("looking up %q: %w", key, err)
		}
		isUpdate := err == nil

		_, err = tx.ExecContext(ctx,
			`INSERT INTO papers (title_key, idx, title, year, relevant, comment, path, row_json, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(title_key) DO UPDATE SET
				idx=excluded.idx, title=excluded.title, year=excluded.year,
				relevant=excluded.relevant, comment=excluded.comment, path=excluded.path,
				row_json=excluded.row_json, updated_at=excluded.updated_at`,
			key, parseIndex(row.Get("index")), strings.TrimSpace(row.Get(catalog.TitleColumn)),
			row.Get("year"), row.Get("relevant"), row.Get("comment"), row.Get("path"),
			string(rowJSON), now,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting %q: %w", key, err)
		}
		if isUpdate {
			summary.Updated++
		} else {
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "inserted: %d, updated: %d, skipped: %d\n",
		summary.Inserted, summary.Updated, summary.Skipped)
	return summary, nil
}

// Count returns the number of papers in the index.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

func parseIndex(s string) sql.NullInt64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}
