package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trackconvert/internal/pipeline"
	"github.com/pdiddy/trackconvert/pkg/types"
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Convert weight measurements to chunked CSV files",
	Long: `Weight reads the body measurement CSV and writes numbered
weight-export-N.csv files in metric units. Output is chunked because the
import pipeline rejects large files.`,
	RunE: runWeight,
}

func init() {
	weightCmd.Flags().String("out-dir", "", "output directory for CSV files (default: the source directory)")
	weightCmd.Flags().Int("chunk-size", 0, "rows per output file (default 75)")

	viper.SetDefault("weight.chunk_size", pipeline.DefaultWeightChunkSize)

	rootCmd.AddCommand(weightCmd)
}

func runWeight(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	chunk, _ := cmd.Flags().GetInt("chunk-size")
	if chunk == 0 {
		chunk = viper.GetInt("weight.chunk_size")
	}

	cfg := types.WeightConfig{
		SourceConfig: types.SourceConfig{SourceDir: sourceDir(cmd)},
		OutDir:       outDir,
		ChunkSize:    chunk,
	}

	_, err := pipeline.RunWeight(cfg, os.Stdout)
	return err
}
