// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog reads and writes the CSV tables that the litsurvey stages
// hand to one another, and defines the title key used to detect duplicates.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TitleColumn is the column every stage joins on.
const TitleColumn = "title"

// Row is one CSV record keyed by column name. Columns missing from a short
// record are absent from the map.
type Row map[string]string

// Get returns the value of col, or "" when the row has no such column.
func (r Row) Get(col string) string {
	return r[col]
}

// Clone returns a copy of r that can be modified independently.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Columns returns the row's columns in the order they appear in header.
// Columns the header does not name follow in lexical order.
func (r Row) Columns(header []string) []string {
	cols := make([]string, 0, len(r))
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if _, ok := r[h]; ok && !seen[h] {
			cols = append(cols, h)
			seen[h] = true
		}
	}
	var extra []string
	for k := range r {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// Table is a parsed CSV file: its header and its data rows in file order.
type Table struct {
	Header []string
	Rows   []Row

	// Ragged counts records whose field count differed from the header.
	// Extra trailing fields are dropped; missing fields are left absent.
	Ragged int
}

// HasColumn reports whether the header names col.
func (t *Table) HasColumn(col string) bool {
	for _, h := range t.Header {
		if h == col {
			return true
		}
	}
	return false
}

// NormalizeTitle returns the duplicate-detection key for a title: the title
// lowercased with surrounding whitespace removed. Two records are the same
// paper iff their keys are equal.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// ReadFile opens path and parses it with Read. A missing file is reported
// with an error that satisfies errors.Is(err, os.ErrNotExist).
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Read parses a UTF-8 CSV stream with a header row. A leading byte-order
// mark is discarded so the first column is named as the file intends
// (spreadsheet exports produce "\ufeffindex" otherwise).
func Read(r io.Reader) (*Table, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if len(rec) != len(header) {
			t.Ragged++
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write writes header and rows as CSV. Every row must carry exactly the
// header's columns; a mismatch is an error and nothing is written.
func Write(w io.Writer, header []string, rows []Row) error {
	if err := validate(header, rows); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path, replacing any existing file. Rows are
// validated before the file is created, so a column mismatch leaves the
// file system untouched.
func WriteFile(path string, header []string, rows []Row) error {
	if err := validate(header, rows); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, header, rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func validate(header []string, rows []Row) error {
	want := make(map[string]bool, len(header))
	for _, h := range header {
		want[h] = true
	}
	for i, row := range rows {
		if len(row) != len(want) {
			return fmt.Errorf("row %d has columns %v, want %v", i+1, row.Columns(header), header)
		}
		for k := range row {
			if !want[k] {
				return fmt.Errorf("row %d has columns %v, want %v", i+1, row.Columns(header), header)
			}
		}
	}
	return nil
}
