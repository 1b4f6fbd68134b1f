// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litsurvey CLI. Each stage of the
// literature-survey workflow is a subcommand; stages hand CSV files to one
// another on disk.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the litsurvey CLI.
var rootCmd = &cobra.Command{
	Use:   "litsurvey",
	Short: "Batch jobs for a literature survey",
	Long: `litsurvey runs the batch stages of a literature survey: search paper
indexes, merge and deduplicate candidate lists, download PDFs, and rename the
downloaded files to match a curated spreadsheet.

A typical run:

  litsurvey search arxiv      -> arxiv_survey_results.csv
  litsurvey search scholar    -> google_scholar_results.csv
  litsurvey finalize          -> phase2_to_be_categorized.csv
  litsurvey dedupe            -> phase2_to_be_categorized_deduplicated.csv
  litsurvey download          -> phase1/*.pdf
  litsurvey rename            -> phase3_renamed.csv

Every flag can also be set in litsurvey.yaml or as a LITSURVEY_* environment
variable (for example LITSURVEY_DOWNLOAD_PREFIX).`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litsurvey.yaml or ~/.config/litsurvey/litsurvey.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: loading %s: %v\n", envFile, err)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litsurvey")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litsurvey"))
		}
	}

	viper.SetEnvPrefix("LITSURVEY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds every local flag of cmd to the viper key
// "<section>.<flag_name>", so the value resolves from flag, environment,
// config file, then flag default.
func bindFlags(cmd *cobra.Command, section string) {
	bindFlagSet(cmd.Flags(), section)
}

func bindFlagSet(fs *pflag.FlagSet, section string) {
	fs.VisitAll(func(f *pflag.Flag) {
		key := section + "." + strings.ReplaceAll(f.Name, "-", "_")
		if err := viper.BindPFlag(key, f); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
		}
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
