// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litsurvey/internal/rename"
	"github.com/pdiddy/litsurvey/pkg/types"
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename downloaded PDFs to match the curated catalog",
	Long: `Rename reads the index of each <prefix>_<index>_*.pdf file in the folder,
looks the index up in the curated CSV, and renames the file to
<index>_<title>.pdf. The CSV is rewritten with a path column pointing at the
renamed files. Files that cannot be matched are left alone and listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.RenameConfig{
			Dir:         viper.GetString("rename.dir"),
			InputPath:   viper.GetString("rename.input"),
			OutputPath:  viper.GetString("rename.output"),
			IndexColumn: viper.GetString("rename.index_column"),
			TitleColumn: viper.GetString("rename.title_column"),
			ReportPath:  viper.GetString("rename.report"),
		}
		w := cmd.OutOrStdout()
		res, err := rename.Run(cfg, w)
		if err != nil {
			return err
		}

		if len(res.Unmatched) > 0 {
			fmt.Fprintln(w, "\nUnmatched files:")
			rows := make([][]string, len(res.Unmatched))
			for i, u := range res.Unmatched {
				rows[i] = []string{u.File, u.Reason}
			}
			writeTable(w, unmatchedColumns, rows)
		}
		return nil
	},
}

func init() {
	f := renameCmd.Flags()
	f.String("dir", "phase2_filtered", "folder holding the downloaded PDFs")
	f.String("input", "phase3_filtered.csv", "curated CSV with an index column")
	f.String("output", "phase3_renamed.csv", "CSV to write with the added path column")
	f.String("index-column", rename.DefaultIndexColumn, "CSV column holding the catalog index")
	f.String("title-column", rename.DefaultTitleColumn, "CSV column holding the paper title")
	f.String("report", "", "also write a YAML report of renamed and unmatched files")
	bindFlags(renameCmd, "rename")

	rootCmd.AddCommand(renameCmd)
}
