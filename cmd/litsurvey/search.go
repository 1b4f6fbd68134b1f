// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litsurvey/internal/httputil"
	"github.com/pdiddy/litsurvey/internal/search"
	"github.com/pdiddy/litsurvey/pkg/types"
)

const (
	defaultArxivQuery   = `(ti:("large language model" OR "LLM") AND ti:("compiler" OR "compilation" OR "code optimization")) OR ti:("neural compilation" OR "neural code translation")`
	defaultScholarQuery = `(("large language model" OR "LLM" OR "transformer") AND ("compiler" OR "compilation" OR "code optimization")) OR ("neural compilation")`
	defaultYearFloor    = 2020
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search paper indexes for candidate papers",
	Long: `Search queries arXiv or Google Scholar, keeps papers from the year floor
onward, and writes them to a CSV file for the finalize stage.`,
}

var searchArxivCmd = &cobra.Command{
	Use:   "arxiv [query]",
	Short: "Search the arXiv API",
	Long: `Search arXiv with a raw search_query (field prefixes such as ti: and abs:
are passed through). Results are fetched newest first in pages and papers
last updated before the year floor are dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := searchConfig(cmd, "search.arxiv", args)
		b := &search.ArxivBackend{
			Client:  httputil.NewClient(cfg.HTTPConfig),
			Limiter: httputil.NewLimiter(cfg.RequestDelay),
		}
		return runSearch(cmd, b, cfg, search.Options{}, "search.arxiv")
	},
}

var searchScholarCmd = &cobra.Command{
	Use:   "scholar [query]",
	Short: "Search Google Scholar",
	Long: `Search Google Scholar by scraping its result pages, ten results at a
time. Papers without a readable year or older than the year floor are dropped;
the rest are sorted newest first. Scholar may block automated requests; a
CAPTCHA page ends the run with an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := searchConfig(cmd, "search.scholar", args)
		b := &search.ScholarBackend{
			Client:  httputil.NewClient(cfg.HTTPConfig),
			Limiter: httputil.NewLimiter(cfg.RequestDelay),
		}
		return runSearch(cmd, b, cfg, search.Options{NewestFirst: true}, "search.scholar")
	},
}

func runSearch(cmd *cobra.Command, b search.Backend, cfg types.SearchConfig, opts search.Options, section string) error {
	w := cmd.OutOrStdout()
	out, err := search.Run(cmd.Context(), b, cfg, opts, w)
	if err != nil {
		return err
	}

	if qf := viper.GetString(section + ".query_file"); qf != "" {
		if err := search.WriteQueryFile(qf, search.NewQueryFile(cfg, opts, out)); err != nil {
			return err
		}
		fmt.Fprintf(w, "saved query to %s\n", qf)
	}
	return nil
}

func searchConfig(cmd *cobra.Command, section string, args []string) types.SearchConfig {
	query := viper.GetString(section + ".query")
	if len(args) > 0 {
		query = args[0]
	}
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration(section + ".timeout"),
			UserAgent: viper.GetString(section + ".user_agent"),
		},
		Query:        strings.TrimSpace(query),
		MaxResults:   viper.GetInt(section + ".max_results"),
		PageSize:     viper.GetInt(section + ".page_size"),
		SortBy:       types.SortCriterion(viper.GetString(section + ".sort_by")),
		YearFloor:    viper.GetInt(section + ".year_floor"),
		RequestDelay: viper.GetDuration(section + ".delay"),
		OutputPath:   viper.GetString(section + ".output"),
	}
}

func init() {
	f := searchArxivCmd.Flags()
	f.String("query", defaultArxivQuery, "arXiv search_query (overridden by the positional argument)")
	f.Int("max-results", 200, "maximum number of results to fetch")
	f.Int("page-size", 100, "results per API request")
	f.String("sort-by", string(types.SortSubmittedDate), "sort criterion: relevance, lastUpdatedDate, submittedDate")
	f.Int("year-floor", defaultYearFloor, "drop papers last updated before this year")
	f.Duration("delay", 3*time.Second, "minimum delay between API requests")
	f.Duration("timeout", httputil.DefaultTimeout, "HTTP request timeout")
	f.String("user-agent", httputil.DefaultUserAgent, "User-Agent header")
	f.String("output", "arxiv_survey_results.csv", "output CSV file")
	f.String("query-file", "", "also save the query and results to this YAML file")
	bindFlags(searchArxivCmd, "search.arxiv")

	f = searchScholarCmd.Flags()
	f.String("query", defaultScholarQuery, "Google Scholar query (overridden by the positional argument)")
	f.Int("max-results", 300, "maximum number of results to process")
	f.Int("year-floor", defaultYearFloor, "drop papers published before this year")
	f.Duration("delay", 5*time.Second, "minimum delay between result pages")
	f.Duration("timeout", httputil.DefaultTimeout, "HTTP request timeout")
	f.String("user-agent", "", "User-Agent header (default: a desktop browser)")
	f.String("output", "google_scholar_results.csv", "output CSV file")
	f.String("query-file", "", "also save the query and results to this YAML file")
	bindFlags(searchScholarCmd, "search.scholar")

	searchCmd.AddCommand(searchArxivCmd)
	searchCmd.AddCommand(searchScholarCmd)
	rootCmd.AddCommand(searchCmd)
}
