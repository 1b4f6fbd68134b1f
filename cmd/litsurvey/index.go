// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/internal/index"
	"github.com/pdiddy/litsurvey/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load the catalog into a SQLite index and query it",
	Long: `Index keeps a local SQLite copy of the curated catalog. Import the CSV after
each curation pass, then query it by title or by the relevant column.`,
}

var indexImportCmd = &cobra.Command{
	Use:   "import <csv>...",
	Short: "Import catalog CSV files into the index",
	Long: `Import upserts every row keyed by its normalized title. Rows identical to
what is stored are skipped, so importing the same file twice is harmless.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(indexConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		for _, path := range args {
			tbl, err := catalog.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			fmt.Fprintf(w, "importing %d rows from %s\n", len(tbl.Rows), path)
			if _, err := store.Import(cmd.Context(), tbl, w); err != nil {
				return err
			}
		}
		return nil
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query [title words]",
	Short: "Query the index by title and relevance",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(indexConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.Query(cmd.Context(), queryOptions(cmd, args))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Fprintln(w, "No results found.")
			return nil
		}

		rows := make([][]string, len(results))
		for i, e := range results {
			idx := ""
			if e.Index != 0 {
				idx = strconv.Itoa(e.Index)
			}
			rows[i] = []string{idx, e.Title, e.Year, e.Relevant, e.Comment}
		}
		writeTable(w, indexColumns, rows)
		fmt.Fprintf(w, "\n%d results\n", len(results))
		return nil
	},
}

var indexExportCmd = &cobra.Command{
	Use:   "export <file.yaml> [title words]",
	Short: "Export indexed papers to a YAML file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(indexConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportYAML(cmd.Context(), args[0], queryOptions(cmd, args[1:])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
		return nil
	},
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		DBPath:     viper.GetString("index.db"),
		MaxResults: viper.GetInt("index.max_results"),
	}
}

func queryOptions(cmd *cobra.Command, args []string) index.QueryOptions {
	relevant, _ := cmd.Flags().GetString("relevant")
	limit, _ := cmd.Flags().GetInt("limit")
	return index.QueryOptions{
		Title:      strings.Join(args, " "),
		Relevant:   relevant,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db", index.DefaultDBPath, "SQLite database file")
	indexCmd.PersistentFlags().Int("max-results", 50, "default maximum number of query results")
	bindFlagSet(indexCmd.PersistentFlags(), "index")

	indexQueryCmd.Flags().String("relevant", "", "only papers whose relevant column equals this value")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	indexExportCmd.Flags().String("relevant", "", "only export papers whose relevant column equals this value")

	indexCmd.AddCommand(indexImportCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)
	rootCmd.AddCommand(indexCmd)
}
