// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trackconvert CLI, which turns a
// Samsung Health data export into files the Garmin Connect importer
// accepts: one TCX document per exercise, chunked CSV for weight and daily
// activity.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the trackconvert CLI.
var rootCmd = &cobra.Command{
	Use:   "trackconvert",
	Short: "Convert Samsung Health exports for Garmin Connect import",
	Long: `trackconvert reads the files a Samsung Health data export produces and
writes them back out in formats the Garmin Connect web importer accepts.

Each export category is a subcommand: exercise (one TCX file per recorded
exercise), weight and activity (chunked CSV). A run operates on a single
export folder, skips records it cannot convert, and reports the skip count
at the end. Sleep data is not part of the vendor export and cannot be
converted.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trackconvert.yaml or ~/.config/trackconvert/config.yaml)")
	rootCmd.PersistentFlags().String("source-dir", ".", "directory holding the export files")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trackconvert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trackconvert"))
		}
	}

	viper.SetEnvPrefix("TRACKCONVERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// sourceDir resolves the export folder for a run.
func sourceDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("source-dir")
	if dir == "" {
		return "."
	}
	return dir
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
