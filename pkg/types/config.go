// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

const (
	// DefaultInput is the progress file read when no input is configured.
	DefaultInput = "game_analysis_progress.pkl"

	// DefaultOutput is the title list written when no output is configured.
	DefaultOutput = "game_titles.txt"

	// DefaultCatalogDB is the SQLite catalog used by the catalog commands.
	DefaultCatalogDB = "game_titles.db"
)

// ExtractConfig holds settings for a single extraction run.
type ExtractConfig struct {
	// InputPath is the serialized progress record to read.
	InputPath string `json:"input" yaml:"input"`

	// OutputPath is the text file that receives one title per line.
	// It is created or replaced on every successful run.
	OutputPath string `json:"output" yaml:"output"`

	// ReportPath, when set, receives a YAML (or JSON, by extension) run summary.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`

	// Strict maps error kinds to non-zero exit codes. When false every
	// run exits 0 and failures are reported as text only.
	Strict bool `json:"strict" yaml:"strict"`
}

// DefaultExtractConfig returns the configuration used when nothing is set:
// the fixed file names in the working directory.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		InputPath:  DefaultInput,
		OutputPath: DefaultOutput,
	}
}

// CatalogConfig holds settings for the title catalog.
type CatalogConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db" yaml:"db"`

	// MaxResults is the default maximum number of listed titles (0 = no limit).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DefaultCatalogConfig returns the catalog configuration used when nothing is set.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{DBPath: DefaultCatalogDB}
}
