// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the flat HTTP request timeout. There is no retry.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litsurvey/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SortCriterion selects the ordering requested from a search backend.
type SortCriterion string

const (
	SortRelevance       SortCriterion = "relevance"
	SortLastUpdatedDate SortCriterion = "lastUpdatedDate"
	SortSubmittedDate   SortCriterion = "submittedDate"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Query is passed to the backend verbatim.
	Query string `json:"query" yaml:"query"`

	// MaxResults caps how many results are requested from the backend.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the number of results fetched per request (arXiv only).
	PageSize int `json:"page_size" yaml:"page_size"`

	// SortBy is the sort criterion requested from the backend.
	SortBy SortCriterion `json:"sort_by" yaml:"sort_by"`

	// YearFloor drops results published or updated before this year.
	YearFloor int `json:"year_floor" yaml:"year_floor"`

	// RequestDelay is the minimum gap between consecutive page requests.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// OutputPath is the CSV file the kept results are written to.
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// MergeSource describes one input table of the finalize stage.
type MergeSource struct {
	// Path is the CSV file to read.
	Path string `json:"path" yaml:"path"`

	// YearColumn names the column the year is taken from.
	YearColumn string `json:"year_column" yaml:"year_column"`

	// YearWidth keeps only the first YearWidth characters of the year
	// column (4 for "2023-10-25" style dates). Zero keeps the whole value.
	YearWidth int `json:"year_width" yaml:"year_width"`
}

// FinalizeConfig holds settings for merging search results into the
// catalog that is categorized by hand.
type FinalizeConfig struct {
	// Sources are read in priority order: on a title conflict the earlier
	// source wins.
	Sources []MergeSource `json:"sources" yaml:"sources"`

	// OutputPath is the merged catalog CSV.
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// DedupeConfig holds settings for the sort-and-collapse stage.
type DedupeConfig struct {
	InputPath  string `json:"input_path" yaml:"input_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// DownloadConfig holds settings for the PDF download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// InputPath is the CSV listing the papers to download.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputDir is the folder PDFs are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Prefix is the first token of every downloaded filename.
	Prefix string `json:"prefix" yaml:"prefix"`

	// URLColumn and TitleColumn name the CSV columns read per row.
	URLColumn   string `json:"url_column" yaml:"url_column"`
	TitleColumn string `json:"title_column" yaml:"title_column"`

	// RateLimitDelay is the minimum gap between consecutive downloads.
	RateLimitDelay time.Duration `json:"rate_limit_delay" yaml:"rate_limit_delay"`
}

// RenameConfig holds settings for the rename stage.
type RenameConfig struct {
	// Dir is the folder holding the downloaded PDFs.
	Dir string `json:"dir" yaml:"dir"`

	// InputPath is the curated CSV keyed by IndexColumn.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath receives the CSV with the added path column.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// IndexColumn and TitleColumn name the CSV columns used for matching.
	IndexColumn string `json:"index_column" yaml:"index_column"`
	TitleColumn string `json:"title_column" yaml:"title_column"`

	// ReportPath, when set, receives a YAML report of the run.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// IndexConfig holds settings for the SQLite catalog index.
type IndexConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
