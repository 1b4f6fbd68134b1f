// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a paper index, keeps results published on or after
// a year floor, and writes them as a candidate-paper CSV.
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// Backend searches a single paper index. Each backend (arXiv, Google
// Scholar) implements this interface.
type Backend interface {
	Name() string

	// Columns is the CSV header written for this backend's results.
	Columns() []string

	// Search runs cfg.Query and returns up to cfg.MaxResults records.
	Search(ctx context.Context, cfg types.SearchConfig, w io.Writer) ([]types.PaperRecord, error)
}

// DateYearColumn holds the YYYY-MM-DD date of the latest arXiv version.
const DateYearColumn = "date-year"

// Options controls the local post-processing of backend results.
type Options struct {
	// NewestFirst sorts kept records by year, most recent first.
	NewestFirst bool
}

// Output holds the results of a search run and its statistics.
type Output struct {
	Backend string
	Records []types.PaperRecord

	// Fetched counts every record the backend returned.
	Fetched int

	// TooOld counts records dropped by the year floor.
	TooOld int

	// NoYear counts records dropped because their year could not be read.
	NoYear int

	Written bool
}

// Run searches with b, applies the year floor, optionally sorts, and
// writes the kept records to cfg.OutputPath. When nothing is kept no file
// is written.
func Run(ctx context.Context, b Backend, cfg types.SearchConfig, opts Options, w io.Writer) (Output, error) {
	if cfg.Query == "" {
		return Output{}, fmt.Errorf("query is empty")
	}

	fmt.Fprintf(w, "searching %s with query: %s\n", b.Name(), cfg.Query)
	records, err := b.Search(ctx, cfg, w)
	if err != nil {
		return Output{}, fmt.Errorf("%s search: %w", b.Name(), err)
	}

	out := Output{Backend: b.Name(), Fetched: len(records)}
	out.Records, out.TooOld, out.NoYear = filterYear(records, cfg.YearFloor, w)
	fmt.Fprintf(w, "found %d relevant papers since %d\n", len(out.Records), cfg.YearFloor)

	if opts.NewestFirst {
		sortNewestFirst(out.Records)
	}

	if len(out.Records) == 0 {
		fmt.Fprintln(w, "no papers matched, no CSV file was created")
		return out, nil
	}

	cols := b.Columns()
	rows := make([]catalog.Row, len(out.Records))
	for i, r := range out.Records {
		rows[i] = project(r, cols)
	}
	if err := catalog.WriteFile(cfg.OutputPath, cols, rows); err != nil {
		return out, err
	}
	out.Written = true
	fmt.Fprintf(w, "saved results to %s\n", cfg.OutputPath)
	return out, nil
}

// filterYear keeps records whose year is at least floor. Records whose
// year is not an integer are reported and dropped.
func filterYear(records []types.PaperRecord, floor int, w io.Writer) (kept []types.PaperRecord, tooOld, noYear int) {
	for _, r := range records {
		year, err := strconv.Atoi(r.Year)
		if err != nil {
			fmt.Fprintf(w, "warning: no publication year for %q, skipping\n", r.Title)
			noYear++
			continue
		}
		if year < floor {
			tooOld++
			continue
		}
		kept = append(kept, r)
	}
	return kept, tooOld, noYear
}

// sortNewestFirst orders records by year descending, keeping backend order
// among records of the same year. Every record has an integer year by now.
func sortNewestFirst(records []types.PaperRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		yi, _ := strconv.Atoi(records[i].Year)
		yj, _ := strconv.Atoi(records[j].Year)
		return yi > yj
	})
}

// project returns the CSV row for r restricted to cols.
func project(r types.PaperRecord, cols []string) catalog.Row {
	all := map[string]string{
		"title":        r.Title,
		"abstract":     r.Abstract,
		"url":          r.URL,
		"comment":      r.Comment,
		DateYearColumn: r.Date,
		"year":         r.Year,
		"authors":      r.Authors,
		"venue":        r.Venue,
	}
	row := make(catalog.Row, len(cols))
	for _, c := range cols {
		row[c] = all[c]
	}
	return row
}
