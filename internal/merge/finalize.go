// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines candidate-paper tables into the curation catalog.
//
// Two duplicate policies live here and are deliberately kept apart:
// Finalize keeps the first record seen for a title (earlier sources win),
// while Collapse keeps the last record seen for a title.
package merge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// Source is one parsed input table of Finalize together with the column
// the year is read from.
type Source struct {
	Name       string
	Table      *catalog.Table
	YearColumn string
	YearWidth  int
}

// FinalizeResult holds the outcome of a finalize run.
type FinalizeResult struct {
	Rows        []types.CatalogRow
	SourcesRead int
	Written     bool
}

// Merge accumulates one CatalogRow per distinct normalized title across
// sources, visiting sources in order. A title already seen is dropped
// entirely; fields are never merged across sources. Rows with a blank
// title are skipped. Indexes are assigned 1..n in accumulation order.
func Merge(sources []Source, w io.Writer) []types.CatalogRow {
	seen := make(map[string]bool)
	var rows []types.CatalogRow

	for _, src := range sources {
		before, blank := len(rows), 0
		for _, row := range src.Table.Rows {
			title := strings.TrimSpace(row.Get(catalog.TitleColumn))
			if title == "" {
				blank++
				continue
			}
			key := catalog.NormalizeTitle(title)
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, types.CatalogRow{
				Index: len(rows) + 1,
				Title: title,
				Year:  leading(row.Get(src.YearColumn), src.YearWidth),
			})
		}
		if blank > 0 {
			fmt.Fprintf(w, "warning: skipped %d rows with no title in %s\n", blank, src.Name)
		}
		fmt.Fprintf(w, "read %d unique papers from %s\n", len(rows)-before, src.Name)
	}
	return rows
}

// Finalize reads each configured source, merges them with Merge, and writes
// the catalog CSV. Sources that cannot be read are skipped with a warning.
// When no rows survive, no output file is written.
func Finalize(cfg types.FinalizeConfig, w io.Writer) (FinalizeResult, error) {
	var result FinalizeResult
	var sources []Source

	for _, s := range cfg.Sources {
		tbl, err := catalog.ReadFile(s.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(w, "warning: source %s not found, skipping\n", s.Path)
			} else {
				fmt.Fprintf(w, "warning: source %s unreadable, skipping: %v\n", s.Path, err)
			}
			continue
		}
		if tbl.Ragged > 0 {
			fmt.Fprintf(w, "warning: %s has %d rows with the wrong number of fields\n", s.Path, tbl.Ragged)
		}
		sources = append(sources, Source{
			Name:       s.Path,
			Table:      tbl,
			YearColumn: s.YearColumn,
			YearWidth:  s.YearWidth,
		})
	}
	result.SourcesRead = len(sources)
	result.Rows = Merge(sources, w)

	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "no data was processed, output file was not created")
		return result, nil
	}

	if err := catalog.WriteFile(cfg.OutputPath, types.CatalogColumns, CatalogTable(result.Rows)); err != nil {
		return result, err
	}
	result.Written = true
	fmt.Fprintf(w, "merged %d papers into %s\n", len(result.Rows), cfg.OutputPath)
	return result, nil
}

// CatalogTable converts catalog rows to CSV rows keyed by types.CatalogColumns.
func CatalogTable(rows []types.CatalogRow) []catalog.Row {
	out := make([]catalog.Row, len(rows))
	for i, r := range rows {
		out[i] = catalog.Row{
			"index":    strconv.Itoa(r.Index),
			"relevant": r.Relevant,
			"comment":  r.Comment,
			"title":    r.Title,
			"year":     r.Year,
		}
	}
	return out
}

// leading returns the first n characters of s, or s itself when n is zero
// or s is shorter.
func leading(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
