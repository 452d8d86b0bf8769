package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Source  SourceConfig  `yaml:"source" envconfig:"SOURCE"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/attendpulse.log"`
}

// SourceConfig selects and configures the register data source
type SourceConfig struct {
	// Type is "sheets" or "excel"
	Type string `yaml:"type" envconfig:"TYPE" default:"excel"`

	// Google Sheets source
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	ReadRange       string `yaml:"read_range" envconfig:"READ_RANGE" default:"Register!A:L"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`

	// Excel source
	ExcelPath string `yaml:"excel_path" envconfig:"EXCEL_PATH" default:"data/register.xlsx"`
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
}

// ReportConfig is the immutable configuration surface of the report
// pipeline: time zone, accepted weekday labels, per-bucket location
// orders and the highlight set. It is validated once at startup and
// passed into the pipeline at construction time.
type ReportConfig struct {
	TimeZone          string `yaml:"time_zone" envconfig:"TIME_ZONE" default:"Asia/Kolkata"`
	DisplayDateFormat string `yaml:"display_date_format" envconfig:"DISPLAY_DATE_FORMAT" default:"02-01-2006"`

	// Accepted day labels, matched case-insensitively. Each weekday
	// carries at least an English and a Tamil spelling by default.
	SundayLabels    []string `yaml:"sunday_labels" envconfig:"SUNDAY_LABELS" default:"sunday,ஞாயிறு"`
	WednesdayLabels []string `yaml:"wednesday_labels" envconfig:"WEDNESDAY_LABELS" default:"wednesday,புதன்"`

	// Canonical location orders per weekday bucket. A bucket with a
	// non-empty order enumerates every listed location even when it has
	// no rows; a bucket with an empty order returns an empty result for
	// an empty month.
	SundayLocations    []string `yaml:"sunday_locations" envconfig:"SUNDAY_LOCATIONS"`
	WednesdayLocations []string `yaml:"wednesday_locations" envconfig:"WEDNESDAY_LOCATIONS"`

	// Locations flagged for presentation emphasis in every bucket.
	HighlightedLocations []string `yaml:"highlighted_locations" envconfig:"HIGHLIGHTED_LOCATIONS"`
}

// Location resolves the configured time zone
func (r ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", r.TimeZone, err)
	}
	return loc, nil
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ATTENDPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config under env config (env takes precedence
// for scalar fields envconfig already populated from the environment)
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if merged.Source.SpreadsheetID == "" {
		merged.Source.SpreadsheetID = fileConfig.Source.SpreadsheetID
	}
	if merged.Source.CredentialsFile == "" {
		merged.Source.CredentialsFile = fileConfig.Source.CredentialsFile
	}
	if merged.Source.SheetName == "" {
		merged.Source.SheetName = fileConfig.Source.SheetName
	}
	if len(merged.Report.SundayLocations) == 0 {
		merged.Report.SundayLocations = fileConfig.Report.SundayLocations
	}
	if len(merged.Report.WednesdayLocations) == 0 {
		merged.Report.WednesdayLocations = fileConfig.Report.WednesdayLocations
	}
	if len(merged.Report.HighlightedLocations) == 0 {
		merged.Report.HighlightedLocations = fileConfig.Report.HighlightedLocations
	}

	return merged
}

func getConfigFilePath() string {
	if path := os.Getenv("ATTENDPULSE_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Source.Type) {
	case "sheets":
		if c.Source.SpreadsheetID == "" {
			return fmt.Errorf("source.spreadsheet_id is required for the sheets source")
		}
		if c.Source.ReadRange == "" {
			return fmt.Errorf("source.read_range is required for the sheets source")
		}
	case "excel":
		if c.Source.ExcelPath == "" {
			return fmt.Errorf("source.excel_path is required for the excel source")
		}
	default:
		return fmt.Errorf("unknown source type: %q", c.Source.Type)
	}

	return c.Report.Validate()
}

// Validate checks the report configuration
func (r ReportConfig) Validate() error {
	if _, err := r.Location(); err != nil {
		return err
	}
	if r.DisplayDateFormat == "" {
		return fmt.Errorf("report.display_date_format must not be empty")
	}
	if len(r.SundayLabels) == 0 {
		return fmt.Errorf("report.sunday_labels must not be empty")
	}
	if len(r.WednesdayLabels) == 0 {
		return fmt.Errorf("report.wednesday_labels must not be empty")
	}
	return nil
}
