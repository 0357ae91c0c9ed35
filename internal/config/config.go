// =============================================================================
// Vendor Normalizer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration (config.yaml).
//
// WHAT LIVES HERE:
//   - Where output files go and how they are named
//   - How vendor files are read (delimiter, encoding, sheet)
//   - Which inference and classification strategies are used
//   - Logging, concurrency and HTTP server settings
//
// WHAT DOES NOT:
//   Column mappings. Mapping choices belong to one upload and are given per
//   invocation (CLI flags) or per session (HTTP API). They are never saved.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory where normalized files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat defines the output file name (without extension).
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "prosera_normalized_{original}"
	OutputNameFormat string `yaml:"output_name_format"`

	// ExportFormat is the output file format: "csv", "xlsx", "sqlite" or "xml".
	// Default: "csv"
	ExportFormat string `yaml:"export_format"`

	// SQLiteTable is the table normalized rows are written to when
	// ExportFormat is "sqlite".
	// Default: "normalized_rows"
	SQLiteTable string `yaml:"sqlite_table"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files normalized concurrently.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// SchemaTemplate is an optional XLSX file defining the required fields.
	// Empty means the built-in product schema.
	SchemaTemplate string `yaml:"schema_template"`

	// Input controls how vendor files are read.
	Input InputSettings `yaml:"input"`

	// Inference selects the column matching strategy.
	Inference InferenceSettings `yaml:"inference"`

	// Classification selects the numeric/categorical strategy.
	Classification ClassificationSettings `yaml:"classification"`

	// Chart holds charting defaults.
	Chart ChartSettings `yaml:"chart"`

	// Server holds HTTP server settings.
	Server ServerSettings `yaml:"server"`
}

// InputSettings contains settings for reading vendor files.
type InputSettings struct {
	// Delimiter is the CSV field separator.
	// Common values: "," (comma), "|" or "pipe", "\t" or "tab", ";"
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of CSV files.
	// Supported: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet is the worksheet read from XLSX files. Empty means the first.
	Sheet string `yaml:"sheet"`
}

// InferenceSettings selects how vendor columns are matched to fields.
type InferenceSettings struct {
	// Matcher is "substring" or "synonym".
	// Default: "substring"
	Matcher string `yaml:"matcher"`
}

// ClassificationSettings selects how fields are classified.
type ClassificationSettings struct {
	// Strategy is "first_row" or "majority".
	// Default: "first_row"
	Strategy string `yaml:"strategy"`

	// SampleSize is the number of rows the majority strategy looks at.
	// Default: 20
	SampleSize int `yaml:"sample_size"`

	// Threshold is the numeric share the majority strategy requires.
	// Default: 0.8
	Threshold float64 `yaml:"threshold"`
}

// ChartSettings holds charting defaults.
type ChartSettings struct {
	// Type is the default chart shape: "bar", "line" or "pie".
	// Default: "bar"
	Type string `yaml:"type"`
}

// ServerSettings holds HTTP server settings.
type ServerSettings struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxUploadMB caps the size of uploaded vendor files.
	// Default: 32
	MaxUploadMB int `yaml:"max_upload_mb"`

	// PreviewRows is how many rows previews return.
	// Default: 5
	PreviewRows int `yaml:"preview_rows"`

	// SessionTTL is how long an idle upload session is kept.
	// Default: 1h
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The path to the configuration file. Empty means defaults only.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "prosera_normalized_{original}"
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "csv"
	}
	if cfg.SQLiteTable == "" {
		cfg.SQLiteTable = "normalized_rows"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}

	// Input defaults.
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = "UTF-8"
	}

	// Strategy defaults.
	if cfg.Inference.Matcher == "" {
		cfg.Inference.Matcher = "substring"
	}
	if cfg.Classification.Strategy == "" {
		cfg.Classification.Strategy = "first_row"
	}
	if cfg.Classification.SampleSize == 0 {
		cfg.Classification.SampleSize = 20
	}
	if cfg.Classification.Threshold == 0 {
		cfg.Classification.Threshold = 0.8
	}
	if cfg.Chart.Type == "" {
		cfg.Chart.Type = "bar"
	}

	// Server defaults.
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.Server.PreviewRows == 0 {
		cfg.Server.PreviewRows = 5
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = time.Hour
	}
}

// validate checks enumerated settings and ranges.
func validate(cfg *Config) error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"export_format", cfg.ExportFormat, []string{"csv", "xlsx", "sqlite", "xml"}},
		{"log_level", cfg.LogLevel, []string{"debug", "info", "warn", "error"}},
		{"inference.matcher", cfg.Inference.Matcher, []string{"substring", "synonym"}},
		{"classification.strategy", cfg.Classification.Strategy, []string{"first_row", "majority"}},
		{"chart.type", cfg.Chart.Type, []string{"bar", "line", "pie"}},
		{"input.encoding", strings.ToUpper(cfg.Input.Encoding), []string{"UTF-8", "UTF8", "ISO-8859-1", "LATIN1", "WINDOWS-1252", "CP1252"}},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("%s: unsupported value %q (allowed: %s)", c.name, c.value, strings.Join(c.allowed, ", "))
		}
	}

	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1")
	}
	if cfg.Classification.Threshold <= 0 || cfg.Classification.Threshold > 1 {
		return fmt.Errorf("classification.threshold must be in (0, 1]")
	}
	if cfg.Classification.SampleSize < 1 {
		return fmt.Errorf("classification.sample_size must be at least 1")
	}
	if cfg.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be at least 1")
	}
	if cfg.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// EnsureOutputDir creates the output directory if it does not exist.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.OutputDir, err)
	}
	return nil
}
