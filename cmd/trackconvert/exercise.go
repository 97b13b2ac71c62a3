package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trackconvert/internal/normalize"
	"github.com/pdiddy/trackconvert/internal/pipeline"
	"github.com/pdiddy/trackconvert/pkg/types"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Convert recorded exercises to TCX files",
	Long: `Exercise reads the exercise summary CSV and, where present, the per-session
GPS and sensor trace files, and writes one TCX document per exercise into
the output directory. Records that cannot be converted are skipped and
counted; only a missing or unreadable input file fails the run.`,
	RunE: runExercise,
}

func init() {
	exerciseCmd.Flags().String("out-dir", "", "output directory for TCX files (default \"exports\")")
	exerciseCmd.Flags().Duration("trace-tolerance", 0, "window for matching sensor readings to GPS fixes (default 1s)")
	exerciseCmd.Flags().String("report", "", "write a YAML run summary to this path")

	viper.SetDefault("exercise.out_dir", "exports")
	viper.SetDefault("exercise.trace_tolerance", normalize.DefaultTraceTolerance)

	rootCmd.AddCommand(exerciseCmd)
}

func runExercise(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = viper.GetString("exercise.out_dir")
	}
	tolerance, _ := cmd.Flags().GetDuration("trace-tolerance")
	if tolerance == 0 {
		tolerance = viper.GetDuration("exercise.trace_tolerance")
	}
	report, _ := cmd.Flags().GetString("report")

	cfg := types.ExerciseConfig{
		SourceConfig:   types.SourceConfig{SourceDir: sourceDir(cmd)},
		OutDir:         outDir,
		TraceTolerance: tolerance,
		ReportPath:     report,
	}

	_, err := pipeline.RunExercise(cfg, os.Stdout)
	return err
}
