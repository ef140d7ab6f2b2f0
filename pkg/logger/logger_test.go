package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "text", &buf)

	log.Info("datasets loaded", String("train", "train.csv"), Int("rows", 3))

	line := buf.String()
	assert.Contains(t, line, "[INFO] datasets loaded")
	assert.Contains(t, line, `train="train.csv"`)
	assert.Contains(t, line, "rows=3")
	assert.Contains(t, line, "logger_test.go")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "text", &buf)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "[WARN] shown")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	log.Error("transform failed", errors.New("boom"), Component("preprocess"), Bool("compressed", false))

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "transform failed", entry.Message)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, "preprocess", entry.Component)
	assert.Equal(t, false, entry.Fields["compressed"])
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New("info", "text", &buf)
	log := base.WithFields(Component("scheduler"), String("run", "abc"))

	log.Info("run started", Float("elapsed", 1.5))

	line := buf.String()
	assert.Contains(t, line, "component=scheduler")
	assert.Contains(t, line, `run="abc"`)
	assert.Contains(t, line, "elapsed=1.5")

	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "scheduler", "parent logger is unaffected")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}
