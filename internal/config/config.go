package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration, loaded from an
// optional YAML file with environment variables (prefix ECONTAB) taking
// precedence.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration for the serve command.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains request rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/econtab.log"`
}

// FetchConfig contains defaults for the fetch stage.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"econtab/1.0"`
	// MaxBodySize caps a fetched payload in bytes.
	MaxBodySize int64 `yaml:"max_body_size" envconfig:"MAX_BODY_SIZE" default:"104857600"`
	// SheetsCredentialsFile is the Google service account key used by the
	// Sheets fetcher. Empty disables Sheets fetching.
	SheetsCredentialsFile string `yaml:"sheets_credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
}

// ExportConfig contains defaults for the export stage.
type ExportConfig struct {
	// OutputDir is where file exports land when the caller gives a bare
	// file name.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/exports"`
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" default:","`
	// BOMPrefix adds a UTF-8 BOM to delimited output for Excel.
	BOMPrefix bool `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"false"`
}

// Load loads configuration from the environment and an optional config
// file (econtab.yaml next to the working directory, or $ECONTAB_CONFIG).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ECONTAB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configFilePath returns the config file location, honoring the
// ECONTAB_CONFIG override.
func configFilePath() string {
	if p := os.Getenv("ECONTAB_CONFIG"); p != "" {
		return p
	}
	return "econtab.yaml"
}

// merge overlays env config on top of file config; env values win when
// set, file values fill the gaps.
func merge(file, env Config) Config {
	out := env
	if out.Server.Port == 0 {
		out.Server.Port = file.Server.Port
	}
	if out.Server.ReadTimeout == 0 {
		out.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if out.Server.WriteTimeout == 0 {
		out.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if out.Server.IdleTimeout == 0 {
		out.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if out.Server.ShutdownTimeout == 0 {
		out.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if out.Logging.Level == "" {
		out.Logging.Level = file.Logging.Level
	}
	if out.Logging.Format == "" {
		out.Logging.Format = file.Logging.Format
	}
	if out.Logging.Output == "" {
		out.Logging.Output = file.Logging.Output
	}
	if out.Logging.FilePath == "" {
		out.Logging.FilePath = file.Logging.FilePath
	}
	if out.Fetch.Timeout == 0 {
		out.Fetch.Timeout = file.Fetch.Timeout
	}
	if out.Fetch.UserAgent == "" {
		out.Fetch.UserAgent = file.Fetch.UserAgent
	}
	if out.Fetch.MaxBodySize == 0 {
		out.Fetch.MaxBodySize = file.Fetch.MaxBodySize
	}
	if out.Fetch.SheetsCredentialsFile == "" {
		out.Fetch.SheetsCredentialsFile = file.Fetch.SheetsCredentialsFile
	}
	if out.Export.OutputDir == "" {
		out.Export.OutputDir = file.Export.OutputDir
	}
	if out.Export.Delimiter == "" {
		out.Export.Delimiter = file.Export.Delimiter
	}
	return out
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("negative fetch timeout: %s", c.Fetch.Timeout)
	}
	if len(c.Export.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Export.Delimiter)
	}
	return nil
}

// ResolveOutputPath joins a bare file name onto the configured output
// directory; absolute paths and paths with directories pass through.
func (c *Config) ResolveOutputPath(name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(c.Export.OutputDir, name)
}
