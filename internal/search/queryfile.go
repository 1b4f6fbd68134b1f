// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litsurvey/pkg/types"
)

// QueryFile is the YAML sidecar saved next to a search CSV. It records the
// query that produced the CSV so the search can be repeated or audited.
type QueryFile struct {
	Backend string              `yaml:"backend"`
	Query   string              `yaml:"query"`
	Config  QueryFileConfig     `yaml:"config"`
	Summary QuerySummary        `yaml:"summary"`
	Results []types.PaperRecord `yaml:"results"`
}

// QueryFileConfig stores the search settings that produced the results.
type QueryFileConfig struct {
	MaxResults  int                 `yaml:"max_results"`
	YearFloor   int                 `yaml:"year_floor"`
	SortBy      types.SortCriterion `yaml:"sort_by,omitempty"`
	NewestFirst bool                `yaml:"newest_first,omitempty"`
	OutputPath  string              `yaml:"output_path"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Fetched   int       `yaml:"fetched"`
	Kept      int       `yaml:"kept"`
	TooOld    int       `yaml:"too_old"`
	NoYear    int       `yaml:"no_year,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewQueryFile builds the sidecar for a finished run.
func NewQueryFile(cfg types.SearchConfig, opts Options, out Output) QueryFile {
	return QueryFile{
		Backend: out.Backend,
		Query:   cfg.Query,
		Config: QueryFileConfig{
			MaxResults:  cfg.MaxResults,
			YearFloor:   cfg.YearFloor,
			SortBy:      cfg.SortBy,
			NewestFirst: opts.NewestFirst,
			OutputPath:  cfg.OutputPath,
		},
		Summary: QuerySummary{
			Fetched:   out.Fetched,
			Kept:      len(out.Records),
			TooOld:    out.TooOld,
			NoYear:    out.NoYear,
			Timestamp: time.Now().UTC(),
		},
		Results: out.Records,
	}
}

// WriteQueryFile saves qf to path as YAML.
func WriteQueryFile(path string, qf QueryFile) error {
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// SearchConfig rebuilds the settings a saved query ran with.
func (qf *QueryFile) SearchConfig() (types.SearchConfig, Options) {
	return types.SearchConfig{
			Query:      qf.Query,
			MaxResults: qf.Config.MaxResults,
			YearFloor:  qf.Config.YearFloor,
			SortBy:     qf.Config.SortBy,
			OutputPath: qf.Config.OutputPath,
		}, Options{
			NewestFirst: qf.Config.NewestFirst,
		}
}
