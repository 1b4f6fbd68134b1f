// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, indexColumns, [][]string{{"1", "Attention", "2017", "yes", ""}, {"2"}})
	s := buf.String()
	assert.Contains(t, s, "INDEX")
	assert.Contains(t, s, "Attention")
	assert.NotContains(t, s, "╭", "non-terminal output uses the plain style")
}

func TestWriteTableNoColumns(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, nil, [][]string{{"x"}})
	assert.Empty(t, buf.String())
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "litsurvey dev")
}

func TestDedupeCommandFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(in, []byte("index,title\n1,b\n2,A\n3,B\n"), 0o644))

	log, err := execute(t, "dedupe", "--input", in, "--output", out)
	require.NoError(t, err)
	assert.Contains(t, log, "processed 3 rows, found 2 unique papers")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "index,title\n2,A\n3,B\n", string(data))
}

func TestFlagsBoundToConfigKeys(t *testing.T) {
	assert.Equal(t, "arxiv", viper.GetString("download.prefix"))
	assert.Equal(t, "phase2_filtered", viper.GetString("rename.dir"))
	assert.Equal(t, 200, viper.GetInt("search.arxiv.max_results"))
	assert.Equal(t, 300, viper.GetInt("search.scholar.max_results"))
	assert.Equal(t, 2020, viper.GetInt("search.scholar.year_floor"))
}

func TestEnvironmentOverridesFlagDefault(t *testing.T) {
	t.Setenv("LITSURVEY_DOWNLOAD_PREFIX", "scholar")
	initConfig()
	assert.Equal(t, "scholar", viper.GetString("download.prefix"))
}
