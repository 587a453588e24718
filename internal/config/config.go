// Package config holds the typed configuration for the agrozoom toolkit.
// Values come from defaults, an optional YAML file, then environment
// variables (prefix AGROZOOM), in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete toolkit configuration
type Config struct {
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Viz        VizConfig        `yaml:"viz" envconfig:"VIZ"`
	Source     SourceConfig     `yaml:"source" envconfig:"SOURCE"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// ProcessingConfig contains the cleaning and aggregation settings
type ProcessingConfig struct {
	// MissingValueThreshold is the fraction of missing cells above which a
	// row is dropped by the sparsity filter.
	MissingValueThreshold float64 `yaml:"missing_value_threshold" envconfig:"MISSING_VALUE_THRESHOLD" validate:"gte=0,lt=1"`
	// OutlierMethod names the outlier detector. Only "iqr" is implemented;
	// other values are accepted and ignored.
	OutlierMethod string `yaml:"outlier_method" envconfig:"OUTLIER_METHOD"`
	// DateColumns lists column names coerced to calendar dates after load.
	DateColumns []string `yaml:"date_columns" envconfig:"DATE_COLUMNS"`
	// NumericPrecision is an advisory rounding hint for consumers; the
	// processing core itself never rounds.
	NumericPrecision int `yaml:"numeric_precision" envconfig:"NUMERIC_PRECISION" validate:"gte=0"`
}

// VizConfig contains chart rendering settings
type VizConfig struct {
	WidthInches  float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0"`
	DPI          int     `yaml:"dpi" envconfig:"DPI" validate:"gt=0"`
	FontSize     float64 `yaml:"font_size" envconfig:"FONT_SIZE" validate:"gt=0"`
}

// SourceConfig describes the upstream statistics provider
type SourceConfig struct {
	BaseURL    string   `yaml:"base_url" envconfig:"BASE_URL"`
	Encoding   string   `yaml:"encoding" envconfig:"ENCODING"`
	DateFormat string   `yaml:"date_format" envconfig:"DATE_FORMAT"`
	Extensions []string `yaml:"extensions" envconfig:"EXTENSIONS"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	FiguresDir   string `yaml:"figures_dir" envconfig:"FIGURES_DIR"`
}

// LoggingConfig contains logging configuration consumed by the CLI
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Processing: ProcessingConfig{
			MissingValueThreshold: 0.1,
			OutlierMethod:         "iqr",
			DateColumns:           []string{"year", "date", "period"},
			NumericPrecision:      2,
		},
		Viz: VizConfig{
			WidthInches:  12,
			HeightInches: 8,
			DPI:          300,
			FontSize:     12,
		},
		Source: SourceConfig{
			BaseURL:    "https://www.tuik.gov.tr",
			Encoding:   "utf-8",
			DateFormat: "2006-01-02",
			Extensions: []string{".xlsx", ".xls", ".csv"},
		},
		Paths: PathsConfig{
			DataDir:      "data",
			RawDir:       filepath.Join("data", "raw"),
			ProcessedDir: filepath.Join("data", "processed"),
			ReportsDir:   "reports",
			FiguresDir:   filepath.Join("reports", "figures"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from the default file locations and environment
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom loads configuration starting from defaults, overlaying the given
// YAML file (if path is non-empty), then environment variables.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("AGROZOOM", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// EnsureDirectories creates the configured data and report directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.RawDir,
		c.Paths.ProcessedDir,
		c.Paths.ReportsDir,
		c.Paths.FiguresDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if len(c.Processing.DateColumns) == 0 {
		c.Processing.DateColumns = Default().Processing.DateColumns
	}
	return nil
}

// findConfigFile returns the first config file found in common locations
func findConfigFile() string {
	locations := []string{
		"agrozoom.yaml",
		filepath.Join("configs", "agrozoom.yaml"),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
