// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// column describes one table column. A zero MaxWidth leaves the column
// unwrapped.
type column struct {
	Title    string
	Align    text.Align
	MaxWidth int
}

// Columns shared by the index query and rename reports.
var (
	indexColumns = []column{
		{Title: "Index", Align: text.AlignRight},
		{Title: "Title", MaxWidth: 60},
		{Title: "Year", Align: text.AlignRight},
		{Title: "Relevant"},
		{Title: "Comment", MaxWidth: 40},
	}
	unmatchedColumns = []column{
		{Title: "File", MaxWidth: 60},
		{Title: "Reason", MaxWidth: 50},
	}
)

// writeTable renders rows under cols to w. Short rows are padded with
// empty cells; extra cells are dropped.
func writeTable(w io.Writer, cols []column, rows [][]string) {
	if len(cols) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(tableStyle(w))

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.Title
		configs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    c.Align,
			WidthMax: c.MaxWidth,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		r := make(table.Row, len(cols))
		for i := range r {
			r[i] = ""
			if i < len(cells) {
				r[i] = cells[i]
			}
		}
		tw.AppendRow(r)
	}
	tw.Render()
}

// tableStyle uses box-drawing characters only when w is a terminal, so
// piped output stays plain ASCII.
func tableStyle(w io.Writer) table.Style {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return table.StyleRounded
	}
	return table.StyleDefault
}
