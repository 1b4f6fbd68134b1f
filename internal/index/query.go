// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Title matches papers whose title contains it, ignoring ASCII case.
	Title string

	// Relevant filters on the curator's relevant column, matched exactly.
	Relevant string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is one indexed paper.
type Entry struct {
	Index    int    `json:"index,omitempty" yaml:"index,omitempty"`
	Title    string `json:"title" yaml:"title"`
	Year     string `json:"year,omitempty" yaml:"year,omitempty"`
	Relevant string `json:"relevant,omitempty" yaml:"relevant,omitempty"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`

	// Row holds every column of the imported CSV row.
	Row map[string]string `json:"row,omitempty" yaml:"row,omitempty"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Query returns indexed papers matching opts, ordered by catalog index.
// Papers without an integer index come last, ordered by title.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT idx, title, year, relevant, comment, path, row_json
		FROM papers
		WHERE 1=1`)

	if opts.Title != "" {
		qb.WriteString(` AND title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(opts.Title)+"%")
	}
	if opts.Relevant != "" {
		qb.WriteString(` AND relevant = ?`)
		args = append(args, opts.Relevant)
	}

	qb.WriteString(` ORDER BY idx IS NULL, idx, title LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                             Entry
			idx                           sql.NullInt64
			year, relevant, comment, path sql.NullString
			rowJSON                       string
		)
		if err := rows.Scan(&idx, &e.Title, &year, &relevant, &comment, &path, &rowJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Index = int(idx.Int64)
		e.Year = year.String
		e.Relevant = relevant.String
		e.Comment = comment.String
		e.Path = path.String
		json.Unmarshal([]byte(rowJSON), &e.Row)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const exportLimit = 100000

// ExportYAML writes the papers matching opts to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string, opts QueryOptions) error {
	opts.MaxResults = exportLimit
	entries, err := s.Query(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
