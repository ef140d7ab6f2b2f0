package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Unknown-category policies understood by the one-hot encoder
const (
	HandleUnknownIgnore = "ignore"
	HandleUnknownError  = "error"
)

const (
	DefaultDataRoot     = "data"
	DefaultTargetColumn = "math score"
)

// Config holds the application configuration
type Config struct {
	Environment       string `yaml:"environment"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	DataRoot          string `yaml:"data_root"`
	ProcessedDataPath string `yaml:"processed_data_path"`
	TargetColumn      string `yaml:"target_column"`
	HandleUnknown     string `yaml:"handle_unknown"`
	CompressArtifact  bool   `yaml:"compress_artifact"`
	MetadataDBPath    string `yaml:"metadata_db_path"`
	Schedule          string `yaml:"schedule"`
	TrainPath         string `yaml:"train_path"`
	TestPath          string `yaml:"test_path"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Environment:   "development",
		LogLevel:      "info",
		LogFormat:     "text",
		DataRoot:      DefaultDataRoot,
		TargetColumn:  DefaultTargetColumn,
		HandleUnknown: HandleUnknownIgnore,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := Default()
	config.applyEnv()
	config.fillDerived()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigFile loads configuration from a YAML file; environment variables
// take precedence over values in the file
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.applyEnv()
	config.fillDerived()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.TargetColumn == "" {
		return fmt.Errorf("target column is required")
	}
	if c.ProcessedDataPath == "" {
		return fmt.Errorf("processed data path is required")
	}
	switch c.HandleUnknown {
	case HandleUnknownIgnore, HandleUnknownError:
	default:
		return fmt.Errorf("invalid handle_unknown policy: %q", c.HandleUnknown)
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("invalid schedule: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.DataRoot = getEnv("DATA_ROOT", c.DataRoot)
	c.ProcessedDataPath = getEnv("PROCESSED_DATA_PATH", c.ProcessedDataPath)
	c.TargetColumn = getEnv("TARGET_COLUMN", c.TargetColumn)
	c.HandleUnknown = getEnv("HANDLE_UNKNOWN", c.HandleUnknown)
	c.CompressArtifact = getEnvAsBool("COMPRESS_ARTIFACT", c.CompressArtifact)
	c.MetadataDBPath = getEnv("METADATA_DB_PATH", c.MetadataDBPath)
	c.Schedule = getEnv("PREPROCESS_SCHEDULE", c.Schedule)
	c.TrainPath = getEnv("TRAIN_PATH", c.TrainPath)
	c.TestPath = getEnv("TEST_PATH", c.TestPath)
}

// fillDerived sets the paths that default relative to DataRoot
func (c *Config) fillDerived() {
	if c.ProcessedDataPath == "" {
		c.ProcessedDataPath = filepath.Join(c.DataRoot, "processed", "processed.gob")
	}
	if c.TrainPath == "" {
		c.TrainPath = filepath.Join(c.DataRoot, "raw", "train.csv")
	}
	if c.TestPath == "" {
		c.TestPath = filepath.Join(c.DataRoot, "raw", "test.csv")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
