// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litsurvey/internal/merge"
	"github.com/pdiddy/litsurvey/pkg/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Collapse duplicate titles and sort the catalog by title",
	Long: `Dedupe keeps the last row seen for each normalized title, sorts the result
by title ignoring case, and writes it with the input columns unchanged.
Running it on its own output produces an identical file. A missing input is
reported as a warning and nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.DedupeConfig{
			InputPath:  viper.GetString("dedupe.input"),
			OutputPath: viper.GetString("dedupe.output"),
		}
		_, err := merge.Dedupe(cfg, cmd.OutOrStdout())
		return err
	},
}

func init() {
	f := dedupeCmd.Flags()
	f.String("input", "phase2_to_be_categorized.csv", "catalog CSV to collapse")
	f.String("output", "phase2_to_be_categorized_deduplicated.csv", "collapsed CSV to write")
	bindFlags(dedupeCmd, "dedupe")

	rootCmd.AddCommand(dedupeCmd)
}
