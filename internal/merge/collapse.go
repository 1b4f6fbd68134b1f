// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// CollapseResult holds the outcome of a dedupe run.
type CollapseResult struct {
	// Processed counts every data row read, including rows with no title.
	Processed int

	Header  []string
	Rows    []catalog.Row
	Written bool
}

// Collapse keeps one row per normalized title, the last one in input order,
// and sorts the survivors by lowercased title. Rows with a blank title are
// dropped. The returned header is the first survivor's column set in the
// table's header order.
func Collapse(tbl *catalog.Table) (header []string, rows []catalog.Row) {
	byTitle := make(map[string]int)
	for _, row := range tbl.Rows {
		title := strings.TrimSpace(row.Get(catalog.TitleColumn))
		if title == "" {
			continue
		}
		key := catalog.NormalizeTitle(title)
		if i, ok := byTitle[key]; ok {
			rows[i] = row
			continue
		}
		byTitle[key] = len(rows)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Get(catalog.TitleColumn)) < strings.ToLower(rows[j].Get(catalog.TitleColumn))
	})

	if len(rows) > 0 {
		header = rows[0].Columns(tbl.Header)
	}
	return header, rows
}

// Dedupe reads cfg.InputPath, collapses duplicate titles, and writes the
// sorted result to cfg.OutputPath. A missing or unreadable input is
// reported and nothing is written. A survivor whose columns differ from the
// first survivor's is an error and nothing is written.
func Dedupe(cfg types.DedupeConfig, w io.Writer) (CollapseResult, error) {
	var result CollapseResult

	tbl, err := catalog.ReadFile(cfg.InputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(w, "warning: input %s not found, nothing to do\n", cfg.InputPath)
		} else {
			fmt.Fprintf(w, "warning: input %s unreadable, nothing to do: %v\n", cfg.InputPath, err)
		}
		return result, nil
	}
	if tbl.Ragged > 0 {
		fmt.Fprintf(w, "warning: %s has %d rows with the wrong number of fields\n", cfg.InputPath, tbl.Ragged)
	}

	if blank := countBlankTitles(tbl); blank > 0 {
		fmt.Fprintf(w, "warning: skipped %d rows with no title\n", blank)
	}

	result.Processed = len(tbl.Rows)
	result.Header, result.Rows = Collapse(tbl)
	fmt.Fprintf(w, "processed %d rows, found %d unique papers\n", result.Processed, len(result.Rows))

	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "no data to process, output file was not created")
		return result, nil
	}

	if err := catalog.WriteFile(cfg.OutputPath, result.Header, result.Rows); err != nil {
		return result, fmt.Errorf("writing deduplicated catalog: %w", err)
	}
	result.Written = true
	fmt.Fprintf(w, "saved %d sorted papers to %s\n", len(result.Rows), cfg.OutputPath)
	return result, nil
}

func countBlankTitles(tbl *catalog.Table) int {
	n := 0
	for _, row := range tbl.Rows {
		if strings.TrimSpace(row.Get(catalog.TitleColumn)) == "" {
			n++
		}
	}
	return n
}
