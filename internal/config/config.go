package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// PipelineConfig contains workbook ingestion settings
type PipelineConfig struct {
	// SourceFile is the default input workbook. CLI flags override it.
	SourceFile string `yaml:"source_file" envconfig:"SOURCE_FILE"`
	// Sheet selects the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR"`
	OutputDir     string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// structValidator validates config structs against their validate tags
var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// A local .env is optional; absence is not an error
	_ = godotenv.Load()

	// Load from environment variables first
	if err := envconfig.Process("AMQ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
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

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Pipeline.SourceFile == "" {
		envConfig.Pipeline.SourceFile = fileConfig.Pipeline.SourceFile
	}
	if envConfig.Pipeline.Sheet == "" {
		envConfig.Pipeline.Sheet = fileConfig.Pipeline.Sheet
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.ExecutableDir == "" {
		envConfig.Paths.ExecutableDir = fileConfig.Paths.ExecutableDir
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.OutputDir == "" {
		envConfig.Paths.OutputDir = fileConfig.Paths.OutputDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

// resolvePaths sets up the executable directory from the centralized paths system
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir != "" {
		return nil
	}

	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// ValidatePaths ensures all required directories exist
func (c *Config) ValidatePaths() error {
	paths, err := c.ResolvePaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	return nil
}

// ResolvePaths returns the Paths view implied by this configuration
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.ExecutableDir
	if base == "" {
		paths, err := GetPaths()
		if err != nil {
			return nil, err
		}
		return paths, nil
	}
	return NewPathsWithBase(base), nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	if filepath.IsAbs(c.Paths.DataDir) {
		return c.Paths.DataDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.DataDir)
}

// GetOutputDir returns the resolved report output directory path
func (c *Config) GetOutputDir() string {
	if filepath.IsAbs(c.Paths.OutputDir) {
		return c.Paths.OutputDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.OutputDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	if filepath.IsAbs(c.Paths.LogsDir) {
		return c.Paths.LogsDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.LogsDir)
}

// validate validates the configuration and applies fallback defaults
func (c *Config) validate() error {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(DefaultLogsDir, DefaultLogFileName)
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = DefaultDataDir
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = DefaultOutputDir
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = DefaultLogsDir
	}

	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: filepath.Join(DefaultLogsDir, DefaultLogFileName),
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
	}
}
