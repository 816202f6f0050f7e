package contract

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/basket/schema"
)

// Default values for configuration.
const (
	DefaultThreshold   = 0.05
	DefaultTopItems    = 10
	MaxTopItems        = 1000
	DefaultPrecision   = 3
	MaxPrecision       = 6
	DefaultPreviewRows = 5
	DefaultListenAddr  = ":8080"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	InputFormat schema.InputFormat

	Threshold     float64
	TopItems      int
	Workers       int
	DistinctPairs bool
	BasketFields  []string
	ItemFields    []string
	UnkeyedLabel  string

	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	PercentSign bool
	Width       int // Terminal width override (0 = auto-detect)
	PreviewRows int

	ListenAddr  string
	CORSOrigins []string

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no mapstructure tag
	InputPathStr string `yaml:"-"`

	// --- Fields from rootCmd.PersistentFlags() ---
	InputFormat       string  `mapstructure:"input-format" yaml:"input-format"`
	Threshold         float64 `mapstructure:"threshold" yaml:"threshold"`
	TopItems          int     `mapstructure:"top-items" yaml:"top-items"`
	Workers           int     `mapstructure:"workers" yaml:"workers"`
	DistinctPairs     bool    `mapstructure:"distinct-pairs" yaml:"distinct-pairs"`
	BasketFields      string  `mapstructure:"basket-fields" yaml:"basket-fields"`
	ItemFields        string  `mapstructure:"item-fields" yaml:"item-fields"`
	UnkeyedLabel      string  `mapstructure:"unkeyed-label" yaml:"unkeyed-label"`
	Precision         int     `mapstructure:"precision" yaml:"precision"`
	Output            string  `mapstructure:"output" yaml:"output"`
	OutputFile        string  `mapstructure:"output-file" yaml:"output-file"`
	PercentSign       bool    `mapstructure:"percent-sign" yaml:"percent-sign"`
	Width             int     `mapstructure:"width" yaml:"width"`
	AnalysisBackend   string  `mapstructure:"analysis-backend" yaml:"analysis-backend"`
	AnalysisDBConnect string  `mapstructure:"analysis-db-connect" yaml:"analysis-db-connect"`
	Color             string  `mapstructure:"color" yaml:"color"`

	// --- Fields from previewCmd.Flags() ---
	Rows int `mapstructure:"rows" yaml:"rows"`

	// --- Fields from serveCmd.Flags() ---
	Listen      string `mapstructure:"listen" yaml:"listen"`
	CORSOrigins string `mapstructure:"cors-origins" yaml:"cors-origins"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.BasketFields != nil {
		clone.BasketFields = append([]string(nil), c.BasketFields...)
	}
	if c.ItemFields != nil {
		clone.ItemFields = append([]string(nil), c.ItemFields...)
	}
	if c.CORSOrigins != nil {
		clone.CORSOrigins = append([]string(nil), c.CORSOrigins...)
	}
	return &clone
}

// Params returns the settings that shape an analysis result, for run tracking.
func (c *Config) Params() map[string]any {
	params := map[string]any{
		"input":          c.InputPath,
		"input_format":   string(c.InputFormat),
		"threshold":      c.Threshold,
		"top_items":      c.TopItems,
		"workers":        c.Workers,
		"distinct_pairs": c.DistinctPairs,
		"unkeyed_label":  c.UnkeyedLabel,
	}
	if len(c.BasketFields) > 0 {
		params["basket_fields"] = c.BasketFields
	}
	if len(c.ItemFields) > 0 {
		params["item_fields"] = c.ItemFields
	}
	return params
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateEngineInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return processInputPath(cfg, input)
}

// ValidateThreshold checks that a significance threshold lies in (0, 1].
func ValidateThreshold(th float64) error {
	if math.IsNaN(th) || th <= 0 || th > 1 {
		return fmt.Errorf("threshold must be greater than 0 and at most 1 (received %v)", th)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend converts a raw backend string, treating empty as disabled tracking.
func ParseBackend(raw string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateEngineInputs processes the settings consumed by the analysis engine.
func validateEngineInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Threshold Validation ---
	if err := ValidateThreshold(input.Threshold); err != nil {
		return err
	}
	cfg.Threshold = input.Threshold

	// --- 2. TopItems Validation ---
	if input.TopItems <= 0 || input.TopItems > MaxTopItems {
		return fmt.Errorf("top-items must be greater than 0 and cannot exceed %d (received %d)", MaxTopItems, input.TopItems)
	}
	cfg.TopItems = input.TopItems

	// --- 3. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 4. Field Resolution Tables ---
	cfg.DistinctPairs = input.DistinctPairs
	cfg.BasketFields = SplitList(input.BasketFields)
	cfg.ItemFields = SplitList(input.ItemFields)
	cfg.UnkeyedLabel = strings.TrimSpace(input.UnkeyedLabel)
	if cfg.UnkeyedLabel == "" {
		cfg.UnkeyedLabel = schema.DefaultUnkeyedLabel
	}

	return nil
}

// validateOutputInputs processes the rendering settings.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.PercentSign = input.PercentSign
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	cfg.PreviewRows = input.Rows
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = DefaultPreviewRows
	}

	cfg.ListenAddr = strings.TrimSpace(input.Listen)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	cfg.CORSOrigins = SplitList(input.CORSOrigins)

	return nil
}

// validateBackendConfig validates the analysis tracking backend.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.AnalysisBackend)
	if err != nil {
		return err
	}
	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	return ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect)
}

// processInputPath resolves the input file and the decoder used for it.
func processInputPath(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)

	format := schema.InputFormat(strings.ToLower(strings.TrimSpace(input.InputFormat)))
	if format == "" {
		format = schema.AutoIn
	}
	if _, ok := schema.ValidInputFormats[format]; !ok {
		return fmt.Errorf("invalid input format '%s'. must be auto, csv, json", input.InputFormat)
	}
	if format == schema.AutoIn && cfg.InputPath != "" && cfg.InputPath != "-" {
		detected, err := DetectInputFormat(cfg.InputPath)
		if err != nil {
			return err
		}
		format = detected
	}
	cfg.InputFormat = format
	return nil
}

// DetectInputFormat picks a decoder from the file extension.
func DetectInputFormat(path string) (schema.InputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return schema.CSVIn, nil
	case ".json":
		return schema.JSONIn, nil
	default:
		return "", fmt.Errorf("cannot detect input format of %q. use --input-format csv or json", path)
	}
}
