// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litsurvey/internal/merge"
	"github.com/pdiddy/litsurvey/pkg/types"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Merge search results into one catalog for manual categorization",
	Long: `Finalize reads the arXiv and Google Scholar result CSVs, drops papers whose
normalized title was already seen (the arXiv file wins), and writes a catalog
with index, relevant, comment, title, and year columns. A missing input file
is reported and skipped; if no rows remain, no catalog is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sources []types.MergeSource
		if p := viper.GetString("finalize.arxiv_input"); p != "" {
			sources = append(sources, types.MergeSource{Path: p, YearColumn: "date-year", YearWidth: 4})
		}
		if p := viper.GetString("finalize.scholar_input"); p != "" {
			sources = append(sources, types.MergeSource{Path: p, YearColumn: "year"})
		}
		cfg := types.FinalizeConfig{
			Sources:    sources,
			OutputPath: viper.GetString("finalize.output"),
		}
		_, err := merge.Finalize(cfg, cmd.OutOrStdout())
		return err
	},
}

func init() {
	f := finalizeCmd.Flags()
	f.String("arxiv-input", "arxiv_survey_results.csv", "arXiv search results (empty to skip)")
	f.String("scholar-input", "google_scholar_results_with_status.csv", "Google Scholar results (empty to skip)")
	f.String("output", "phase2_to_be_categorized.csv", "catalog CSV to write")
	bindFlags(finalizeCmd, "finalize")

	rootCmd.AddCommand(finalizeCmd)
}
