package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig tests configuration loading from the environment
func TestLoadConfig(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_ROOT", "/srv/data")
	t.Setenv("TARGET_COLUMN", "reading score")
	t.Setenv("HANDLE_UNKNOWN", "error")
	t.Setenv("COMPRESS_ARTIFACT", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "reading score", cfg.TargetColumn)
	assert.Equal(t, HandleUnknownError, cfg.HandleUnknown)
	assert.True(t, cfg.CompressArtifact)
	assert.Equal(t, filepath.Join("/srv/data", "processed", "processed.gob"), cfg.ProcessedDataPath)
	assert.Equal(t, filepath.Join("/srv/data", "raw", "train.csv"), cfg.TrainPath)
}

// TestLoadConfigDefaults tests default values
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "math score", cfg.TargetColumn)
	assert.Equal(t, HandleUnknownIgnore, cfg.HandleUnknown)
	assert.Equal(t, filepath.Join("data", "processed", "processed.gob"), cfg.ProcessedDataPath)
	assert.False(t, cfg.CompressArtifact)
	assert.Empty(t, cfg.MetadataDBPath)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preprocess.yaml")
	content := `
target_column: score
processed_data_path: /tmp/out/transform.gob
compress_artifact: true
schedule: "@daily"
train_path: train.csv
test_path: test.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "score", cfg.TargetColumn)
	assert.Equal(t, "/tmp/out/transform.gob", cfg.ProcessedDataPath)
	assert.True(t, cfg.CompressArtifact)
	assert.Equal(t, "@daily", cfg.Schedule)
	assert.Equal(t, "train.csv", cfg.TrainPath)
	assert.Equal(t, "json", cfg.LogFormat, "environment overrides the file")
	assert.Equal(t, "info", cfg.LogLevel, "unset keys keep their defaults")
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_column: [unclosed"), 0644))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "empty target", mutate: func(c *Config) { c.TargetColumn = "" }, wantErr: true},
		{name: "empty artifact path", mutate: func(c *Config) { c.ProcessedDataPath = "" }, wantErr: true},
		{name: "unknown policy", mutate: func(c *Config) { c.HandleUnknown = "encode" }, wantErr: true},
		{name: "valid schedule", mutate: func(c *Config) { c.Schedule = "*/5 * * * *" }},
		{name: "invalid schedule", mutate: func(c *Config) { c.Schedule = "every day" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.fillDerived()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
