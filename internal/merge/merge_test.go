// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/pkg/types"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func table(t *testing.T, content string) *catalog.Table {
	t.Helper()
	tbl, err := catalog.Read(strings.NewReader(content))
	require.NoError(t, err)
	return tbl
}

// --- Finalize ---

func TestMergeFirstSourceWins(t *testing.T) {
	arxiv := table(t, "title,date-year\nFoo,2021-05-01\n")
	scholar := table(t, "title,year\nfoo,2019\n")

	rows := Merge([]Source{
		{Name: "arxiv", Table: arxiv, YearColumn: "date-year", YearWidth: 4},
		{Name: "scholar", Table: scholar, YearColumn: "year"},
	}, io.Discard)

	require.Len(t, rows, 1)
	assert.Equal(t, types.CatalogRow{Index: 1, Relevant: "", Comment: "", Title: "Foo", Year: "2021"}, rows[0])
}

func TestMergeSkipsBlankTitlesAndNumbersSequentially(t *testing.T) {
	a := table(t, "title,date-year\n  ,2020-01-01\nAlpha,2020-02-02\n Beta ,2021-03-03\nALPHA,2022-01-01\n")
	b := table(t, "title,year\nGamma,2023\nbeta,2019\n\"\",2020\n")

	var log bytes.Buffer
	rows := Merge([]Source{
		{Name: "a", Table: a, YearColumn: "date-year", YearWidth: 4},
		{Name: "b", Table: b, YearColumn: "year"},
	}, &log)

	assert.Contains(t, log.String(), "warning: skipped 1 rows with no title in a")
	assert.Contains(t, log.String(), "warning: skipped 1 rows with no title in b")
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Index)
	}
	assert.Equal(t, "Alpha", rows[0].Title)
	assert.Equal(t, "Beta", rows[1].Title, "title is trimmed")
	assert.Equal(t, "2021", rows[1].Year)
	assert.Equal(t, "Gamma", rows[2].Title)
	assert.Equal(t, "2023", rows[2].Year)
}

func TestMergeMissingYearColumn(t *testing.T) {
	rows := Merge([]Source{{Name: "a", Table: table(t, "title\nOnly Title\n"), YearColumn: "year"}}, io.Discard)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Year)
}

func TestFinalizeWritesCatalog(t *testing.T) {
	dir := t.TempDir()
	arxiv := writeCSV(t, dir, "arxiv.csv", "title,abstract,url,comment,date-year\nFoo,abs,u,c,2021-05-01\n")
	scholar := writeCSV(t, dir, "scholar.csv", "title,authors,year,venue,url\nfoo,X,2019,V,u\nBar,Y,2022,W,v\n")
	out := filepath.Join(dir, "out.csv")

	var buf bytes.Buffer
	result, err := Finalize(types.FinalizeConfig{
		Sources: []types.MergeSource{
			{Path: arxiv, YearColumn: "date-year", YearWidth: 4},
			{Path: scholar, YearColumn: "year"},
		},
		OutputPath: out,
	}, &buf)
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.Equal(t, 2, result.SourcesRead)
	assert.Equal(t, "index,relevant,comment,title,year\n1,,,Foo,2021\n2,,,Bar,2022\n", readFile(t, out))
	assert.Contains(t, buf.String(), "read 1 unique papers from "+scholar)
}

func TestFinalizeToleratesMissingSource(t *testing.T) {
	dir := t.TempDir()
	scholar := writeCSV(t, dir, "scholar.csv", "title,year\nBar,2022\n")
	out := filepath.Join(dir, "out.csv")

	var buf bytes.Buffer
	result, err := Finalize(types.FinalizeConfig{
		Sources: []types.MergeSource{
			{Path: filepath.Join(dir, "missing.csv"), YearColumn: "date-year", YearWidth: 4},
			{Path: scholar, YearColumn: "year"},
		},
		OutputPath: out,
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SourcesRead)
	assert.Contains(t, buf.String(), "warning: source")
	assert.Equal(t, "index,relevant,comment,title,year\n1,,,Bar,2022\n", readFile(t, out))
}

func TestFinalizeNoSourcesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	result, err := Finalize(types.FinalizeConfig{
		Sources:    []types.MergeSource{{Path: filepath.Join(dir, "a.csv")}, {Path: filepath.Join(dir, "b.csv")}},
		OutputPath: out,
	}, io.Discard)
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.Empty(t, result.Rows)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "output must not be created")
}

func TestFinalizeOutputWriteFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeCSV(t, dir, "a.csv", "title,year\nFoo,2020\n")

	_, err := Finalize(types.FinalizeConfig{
		Sources:    []types.MergeSource{{Path: src, YearColumn: "year"}},
		OutputPath: filepath.Join(dir, "no-such-dir", "out.csv"),
	}, io.Discard)
	assert.Error(t, err)
}

// --- Collapse ---

func TestCollapseLastWins(t *testing.T) {
	tbl := table(t, "title,year,comment\nFoo Bar,2020,first\nOther,2021,x\n foo bar ,2022,last\n")

	header, rows := Collapse(tbl)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"title", "year", "comment"}, header)
	assert.Equal(t, " foo bar ", rows[0].Get("title"))
	assert.Equal(t, "last", rows[0].Get("comment"))
	assert.Equal(t, "Other", rows[1].Get("title"))
}

func TestCollapseSortedCaseInsensitive(t *testing.T) {
	tbl := table(t, "title\nbeta\nAlpha\ngamma\nDelta\n")

	_, rows := Collapse(tbl)
	require.Len(t, rows, 4)
	for i := 1; i < len(rows); i++ {
		prev := strings.ToLower(rows[i-1].Get("title"))
		cur := strings.ToLower(rows[i].Get("title"))
		assert.LessOrEqual(t, prev, cur)
	}
	assert.Equal(t, "Alpha", rows[0].Get("title"))
}

func TestCollapseRowCounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"distinct", "title\nA\nB\nC\n", 3},
		{"case duplicate", "title\nA\na\nB\n", 2},
		{"blank title", "title\nA\n\"\"\nB\n", 2},
		{"whitespace title", "title\nA\n\"  \"\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table(t, tt.input)
			_, rows := Collapse(tbl)
			assert.Equal(t, tt.want, len(rows))
			assert.LessOrEqual(t, len(rows), len(tbl.Rows))
		})
	}
}

func TestDedupeIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "index,relevant,comment,title,year\n1,,,Zeta,2021\n2,yes,,alpha,2020\n3,,,ZETA ,2023\n4,,,Beta,2022\n")
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	r1, err := Dedupe(types.DedupeConfig{InputPath: in, OutputPath: first}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 4, r1.Processed)
	assert.Len(t, r1.Rows, 3)

	_, err = Dedupe(types.DedupeConfig{InputPath: first, OutputPath: second}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, readFile(t, first), readFile(t, second))
	assert.Equal(t, "index,relevant,comment,title,year\n2,yes,,alpha,2020\n4,,,Beta,2022\n3,,,ZETA ,2023\n", readFile(t, first))
}

func TestDedupeHeterogeneousColumnsFails(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "title,year,url\nA,2021,u\nB,2020\n")
	out := filepath.Join(dir, "out.csv")

	_, err := Dedupe(types.DedupeConfig{InputPath: in, OutputPath: out}, io.Discard)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDedupeMissingInput(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	result, err := Dedupe(types.DedupeConfig{InputPath: filepath.Join(dir, "nope.csv"), OutputPath: filepath.Join(dir, "out.csv")}, &buf)
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.Contains(t, buf.String(), "not found")
}

func TestDedupeEmptyTitlesOnly(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "title,year\n,2020\n  ,2021\n")
	out := filepath.Join(dir, "out.csv")

	var log bytes.Buffer
	result, err := Dedupe(types.DedupeConfig{InputPath: in, OutputPath: out}, &log)
	require.NoError(t, err)
	assert.Contains(t, log.String(), "warning: skipped 2 rows with no title")
	assert.Equal(t, 2, result.Processed)
	assert.False(t, result.Written)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
