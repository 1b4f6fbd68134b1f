// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litsurvey/internal/acquire"
	"github.com/pdiddy/litsurvey/internal/httputil"
	"github.com/pdiddy/litsurvey/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the PDF of every paper in a CSV",
	Long: `Download fetches the url column of each CSV row into the output folder as
<prefix>_<row>_<title>.pdf. Files that already exist are skipped, so an
interrupted run can simply be restarted. Downloads are spaced by a fixed delay.`,
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("download.timeout"),
			UserAgent: viper.GetString("download.user_agent"),
		},
		InputPath:      viper.GetString("download.input"),
		OutputDir:      viper.GetString("download.output_dir"),
		Prefix:         viper.GetString("download.prefix"),
		URLColumn:      viper.GetString("download.url_column"),
		TitleColumn:    viper.GetString("download.title_column"),
		RateLimitDelay: viper.GetDuration("download.delay"),
	}

	// Per-row failures are reported in the batch summary; re-running
	// retries only the rows that are still missing.
	_, err := acquire.Download(cmd.Context(), httputil.NewClient(cfg.HTTPConfig), cfg, cmd.OutOrStdout())
	return err
}

func init() {
	f := downloadCmd.Flags()
	f.String("input", "arxiv_survey_results.csv", "CSV listing the papers to download")
	f.String("output-dir", "phase1", "folder the PDFs are written to")
	f.String("prefix", "arxiv", "first token of every downloaded filename")
	f.String("url-column", "url", "CSV column holding the PDF URL")
	f.String("title-column", "title", "CSV column holding the paper title")
	f.Duration("delay", 2*time.Second, "minimum delay between downloads")
	f.Duration("timeout", httputil.DefaultTimeout, "HTTP request timeout")
	f.String("user-agent", httputil.DefaultUserAgent, "User-Agent header")
	bindFlags(downloadCmd, "download")

	rootCmd.AddCommand(downloadCmd)
}
