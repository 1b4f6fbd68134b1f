// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename renames downloaded PDFs to match a curated catalog. Each
// file named "<prefix>_<index>[_...].pdf" is looked up by index in the CSV
// and renamed to "<index>_<title>.pdf"; the CSV is rewritten with a path
// column pointing at the renamed files.
package rename

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/internal/filename"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// PathColumn is the column added to the rewritten CSV.
const PathColumn = "path"

// Default column names.
const (
	DefaultIndexColumn = "index"
	DefaultTitleColumn = "title"
)

// Renamed records one successful rename.
type Renamed struct {
	Index int    `yaml:"index"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
}

// Unmatched records a file that was left untouched and why.
type Unmatched struct {
	File   string `yaml:"file"`
	Reason string `yaml:"reason"`
}

// Result summarizes a rename run.
type Result struct {
	Renamed        []Renamed   `yaml:"renamed"`
	AlreadyCorrect []string    `yaml:"already_correct,omitempty"`
	Unmatched      []Unmatched `yaml:"unmatched"`

	// Rows is the number of catalog rows written to the output CSV.
	Rows int `yaml:"rows"`
}

// Run renames the PDFs in cfg.Dir according to the catalog at
// cfg.InputPath. A missing CSV, a missing index column, or an unreadable
// folder is fatal; per-file problems are collected in Result.Unmatched.
func Run(cfg types.RenameConfig, w io.Writer) (*Result, error) {
	indexCol := cfg.IndexColumn
	if indexCol == "" {
		indexCol = DefaultIndexColumn
	}
	titleCol := cfg.TitleColumn
	if titleCol == "" {
		titleCol = DefaultTitleColumn
	}

	tbl, err := catalog.ReadFile(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if !tbl.HasColumn(indexCol) {
		return nil, fmt.Errorf("catalog %s has no %q column (columns: %s)",
			cfg.InputPath, indexCol, strings.Join(tbl.Header, ", "))
	}

	cat := indexRows(tbl, indexCol, w)
	fmt.Fprintf(w, "loaded %d catalog entries from %s\n", len(cat.byIndex), cfg.InputPath)

	files, err := listPDFs(cfg.Dir)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	paths := make(map[int]string)
	for _, name := range files {
		idx, err := filename.ParseIndex(name)
		if err != nil {
			res.unmatched(w, name, "cannot parse index from filename")
			continue
		}
		row, ok := cat.byIndex[idx]
		if !ok {
			res.unmatched(w, name, fmt.Sprintf("no catalog row with index %d", idx))
			continue
		}

		newName := filename.Renamed(idx, row.Get(titleCol))
		newPath := filepath.Join(cfg.Dir, newName)
		if newName == name {
			res.AlreadyCorrect = append(res.AlreadyCorrect, name)
			paths[idx] = newPath
			continue
		}
		if _, err := os.Lstat(newPath); err == nil {
			res.unmatched(w, name, fmt.Sprintf("target %s already exists", newName))
			continue
		}
		if err := os.Rename(filepath.Join(cfg.Dir, name), newPath); err != nil {
			res.unmatched(w, name, fmt.Sprintf("rename failed: %v", err))
			continue
		}
		fmt.Fprintf(w, "renamed: %s -> %s\n", name, newName)
		res.Renamed = append(res.Renamed, Renamed{Index: idx, From: name, To: newName})
		paths[idx] = newPath
	}

	if cfg.OutputPath != "" {
		header, rows := cat.withPaths(tbl.Header, indexCol, paths)
		if err := catalog.WriteFile(cfg.OutputPath, header, rows); err != nil {
			return res, err
		}
		res.Rows = len(rows)
		fmt.Fprintf(w, "wrote %d rows to %s\n", len(rows), cfg.OutputPath)
	}

	if cfg.ReportPath != "" {
		if err := WriteReport(cfg.ReportPath, res); err != nil {
			return res, err
		}
	}

	fmt.Fprintf(w, "renamed %d files, %d already correct, %d unmatched\n",
		len(res.Renamed), len(res.AlreadyCorrect), len(res.Unmatched))
	return res, nil
}

func (r *Result) unmatched(w io.Writer, file, reason string) {
	fmt.Fprintf(w, "warning: %s: %s\n", file, reason)
	r.Unmatched = append(r.Unmatched, Unmatched{File: file, Reason: reason})
}

// indexedCatalog maps integer indices to catalog rows. A repeated index
// keeps the last row, placed at the position of the first.
type indexedCatalog struct {
	byIndex map[int]catalog.Row

	// order lists the output rows in file order. Entries with ok unset
	// are rows whose index is not an integer.
	order []slot
}

type slot struct {
	index int
	ok    bool
	row   catalog.Row
}

func indexRows(tbl *catalog.Table, indexCol string, w io.Writer) *indexedCatalog {
	c := &indexedCatalog{byIndex: make(map[int]catalog.Row)}
	for i, row := range tbl.Rows {
		raw := strings.TrimSpace(row.Get(indexCol))
		idx, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(w, "warning: row %d has non-integer index %q\n", i+1, raw)
			c.order = append(c.order, slot{row: row})
			continue
		}
		if _, seen := c.byIndex[idx]; !seen {
			c.order = append(c.order, slot{index: idx, ok: true})
		}
		c.byIndex[idx] = row
	}
	return c
}

// withPaths returns the output header and rows: every input column plus
// PathColumn. Rows with no matched file keep the path they were read with.
func (c *indexedCatalog) withPaths(header []string, indexCol string, paths map[int]string) ([]string, []catalog.Row) {
	out := append([]string(nil), header...)
	hasPath := false
	for _, h := range header {
		if h == PathColumn {
			hasPath = true
		}
	}
	if !hasPath {
		out = append(out, PathColumn)
	}

	rows := make([]catalog.Row, 0, len(c.order))
	for _, s := range c.order {
		src := s.row
		if s.ok {
			src = c.byIndex[s.index]
		}
		row := make(catalog.Row, len(out))
		for _, h := range header {
			row[h] = src.Get(h)
		}
		row[PathColumn] = src.Get(PathColumn)
		if p, ok := paths[s.index]; s.ok && ok {
			row[PathColumn] = p
		}
		rows = append(rows, row)
	}
	return out, rows
}

// listPDFs returns the names of the .pdf files directly inside dir.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("folder %s does not exist", dir)
		}
		return nil, fmt.Errorf("reading folder %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !filename.IsPDF(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// WriteReport saves res to path as YAML.
func WriteReport(path string, res *Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling rename report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rename report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rename report: %w", err)
	}
	var res Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing rename report: %w", err)
	}
	return &res, nil
}
