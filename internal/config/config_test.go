package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"urls": ["https://example.com"]}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com"}, cfg.URLs)
	assert.Equal(t, "scraped", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 5000, cfg.RequestTimeoutMs)
	assert.Equal(t, "pagereaper.db", cfg.DBPath)
	assert.Equal(t, "metrics.log", cfg.MetricsPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.UserAgent)
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfigFile(t, `{
		"urls": ["https://example.com", "https://example.org"],
		"output_dir": "out",
		"user_agent": "test-agent/1.0",
		"workers": 8,
		"request_timeout_ms": 2000,
		"log_level": "debug"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Len(t, cfg.URLs, 2)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "test-agent/1.0", cfg.UserAgent)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 2000, cfg.RequestTimeoutMs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing urls", `{}`},
		{"empty urls", `{"urls": []}`},
		{"timeout too low", `{"urls": ["https://example.com"], "request_timeout_ms": 100}`},
		{"bad log level", `{"urls": ["https://example.com"], "log_level": "loud"}`},
		{"malformed json", `{"urls": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestLookupKnownKeys(t *testing.T) {
	path := writeConfigFile(t, `{
		"urls": ["https://example.com"],
		"user_agent": "test-agent/1.0",
		"workers": 5
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	ua, err := cfg.Lookup("user_agent")
	require.NoError(t, err)
	assert.Equal(t, "test-agent/1.0", ua)

	workers, err := cfg.Lookup("workers")
	require.NoError(t, err)
	assert.Equal(t, "5", workers)
}

func TestLookupMissingKeyIsTyped(t *testing.T) {
	path := writeConfigFile(t, `{"urls": ["https://example.com"]}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = cfg.Lookup("does-not-exist")
	require.Error(t, err)

	var missing *MissingKeyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "does-not-exist", missing.Key)
}
