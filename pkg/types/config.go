package types

import "time"

// SourceConfig holds the setting shared by every conversion category.
type SourceConfig struct {
	// SourceDir is the directory holding the vendor export files.
	SourceDir string `json:"source_dir" yaml:"source_dir"`
}

// ExerciseConfig holds settings for the exercise-to-TCX conversion.
type ExerciseConfig struct {
	SourceConfig `yaml:",inline"`

	// OutDir is the directory that receives the generated TCX files
	// (default "exports").
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// TraceTolerance is the window within which a sensor reading with no
	// exact-timestamp GPS match is shifted onto the nearest GPS sample
	// (default 1s).
	TraceTolerance time.Duration `json:"trace_tolerance" yaml:"trace_tolerance"`

	// ReportPath, when set, receives a YAML summary of the run.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// WeightConfig holds settings for the weight-to-CSV conversion.
type WeightConfig struct {
	SourceConfig `yaml:",inline"`

	// OutDir is the directory that receives the numbered CSV files.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// ChunkSize is the number of rows per output file (default 75). The
	// import pipeline rejects files much past 4 KB.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// ActivityConfig holds settings for the daily-activity-to-CSV conversion.
type ActivityConfig struct {
	SourceConfig `yaml:",inline"`

	// OutDir is the directory that receives the numbered CSV files.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// ChunkSize is the number of rows per output file (default 100).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// PipelineConfig groups all category configurations.
type PipelineConfig struct {
	Exercise ExerciseConfig `json:"exercise" yaml:"exercise"`
	Weight   WeightConfig   `json:"weight" yaml:"weight"`
	Activity ActivityConfig `json:"activity" yaml:"activity"`
}
