// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Foo Bar", "foo bar"},
		{" foo bar ", "foo bar"},
		{"\tLLM Compiler\n", "llm compiler"},
		{"Inner  Spaces Kept", "inner  spaces kept"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.input); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	assert.Equal(t, NormalizeTitle("Foo Bar"), NormalizeTitle(" foo bar "))
}

func TestReadStripsByteOrderMark(t *testing.T) {
	input := "\ufeffindex,title\n1,Foo\n"
	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"index", "title"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "1", tbl.Rows[0].Get("index"))
	assert.True(t, tbl.HasColumn("index"))
}

func TestReadRaggedRows(t *testing.T) {
	input := "title,year,url\nShort,2021\nLong,2022,u,extra\nExact,2023,v\n"
	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, 2, tbl.Ragged)

	_, hasURL := tbl.Rows[0]["url"]
	assert.False(t, hasURL, "short row should not carry the missing column")
	assert.Equal(t, Row{"title": "Long", "year": "2022", "url": "u"}, tbl.Rows[1])
}

func TestReadEmpty(t *testing.T) {
	tbl, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteQuotesAndOrders(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{
		{"title": "A, B", "year": "2021"},
		{"title": `Say "hi"`, "year": "2020"},
	}
	require.NoError(t, Write(&buf, []string{"title", "year"}, rows))

	want := "title,year\n\"A, B\",2021\n\"Say \"\"hi\"\"\",2020\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRejectsMismatchedColumns(t *testing.T) {
	header := []string{"title", "year"}
	tests := []struct {
		name string
		row  Row
	}{
		{"missing column", Row{"title": "A"}},
		{"extra column", Row{"title": "A", "year": "1", "url": "u"}},
		{"different column", Row{"title": "A", "url": "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, header, []Row{tt.row})
			require.Error(t, err)
			assert.Empty(t, buf.String())
		})
	}
}

func TestWriteFileLeavesNoFileOnMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := WriteFile(path, []string{"title", "year"}, []Row{{"title": "A"}})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"index", "title"}
	rows := []Row{{"index": "1", "title": "Foo"}, {"index": "2", "title": "Bar"}}
	require.NoError(t, WriteFile(path, header, rows))

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header, tbl.Header)
	assert.Equal(t, rows, tbl.Rows)
}

func TestRowColumns(t *testing.T) {
	r := Row{"b": "2", "a": "1", "z": "9"}
	assert.Equal(t, []string{"a", "b", "z"}, r.Columns([]string{"a", "b"}))
	assert.Equal(t, []string{"b", "a", "z"}, r.Columns([]string{"b", "a", "z"}))
}

func TestRowClone(t *testing.T) {
	r := Row{"title": "A"}
	c := r.Clone()
	c["title"] = "B"
	assert.Equal(t, "A", r.Get("title"))
}
