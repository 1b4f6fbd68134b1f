// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filename

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"illegal characters", "A/B: C?", "AB_C"},
		{"all illegal", `\/*?:"<>|`, ""},
		{"spaces", "Large Language Models", "Large_Language_Models"},
		{"already safe", "LLM-Compiler_2024", "LLM-Compiler_2024"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeNoSpacesOrIllegalCharacters(t *testing.T) {
	got := Sanitize("A/B: C?")
	assert.Equal(t, "AB_C", got)
	assert.False(t, strings.ContainsAny(got, `\/*?:"<>| `))
}

func TestSanitizeTruncates(t *testing.T) {
	title := strings.Join(strings.Split(strings.Repeat("x", 200), ""), " ")
	got := Sanitize(title)
	assert.Equal(t, MaxLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(got, "x_x_x"))
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	got := Sanitize(strings.Repeat("é", 200))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxLength, utf8.RuneCountInString(got))
}

func TestSanitizeDeterministic(t *testing.T) {
	in := `Neural "Compilation": A Survey?`
	assert.Equal(t, Sanitize(in), Sanitize(in))
}

func TestDownloadAndRenamed(t *testing.T) {
	assert.Equal(t, "arxiv_3_LLM_Compiler.pdf", Download("arxiv", 3, "LLM Compiler"))
	assert.Equal(t, "17_LLM_Compiler.pdf", Renamed(17, "LLM: Compiler"))
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"prefix and index", "aa_17.pdf", 17, false},
		{"prefix index title", "arxiv_17_Some_Title.pdf", 17, false},
		{"upper-case extension", "arxiv_4_X.PDF", 4, false},
		{"no underscore", "paper.pdf", 0, true},
		{"non-numeric token", "17_Some_Title.pdf", 0, true},
		{"empty token", "arxiv__x.pdf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIndexRoundTripsDownloadName(t *testing.T) {
	n, err := ParseIndex(Download("arxiv", 42, "Some: Title"))
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("a.pdf"))
	assert.True(t, IsPDF("a.PDF"))
	assert.False(t, IsPDF("a.pdf.txt"))
	assert.False(t, IsPDF("notes"))
}
