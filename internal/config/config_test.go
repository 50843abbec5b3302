package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Provider.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "closecli/1.0", cfg.Provider.UserAgent)
	assert.Equal(t, 2.0, cfg.Provider.RateLimit.RPS)
	assert.Equal(t, 1, cfg.Provider.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := `provider:
  base_url: http://localhost:9090
  timeout: 5s
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090", cfg.Provider.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Fields absent from the file keep their defaults
	assert.Equal(t, "closecli/1.0", cfg.Provider.UserAgent)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := `provider:
  base_url: http://from-file:9090
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	t.Setenv("CLOSECLI_PROVIDER_BASE_URL", "http://from-env:8080")

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8080", cfg.Provider.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
	}{
		{name: "bad log level", envVar: "CLOSECLI_LOGGING_LEVEL", value: "loud"},
		{name: "bad log format", envVar: "CLOSECLI_LOGGING_FORMAT", value: "xml"},
		{name: "bad base URL", envVar: "CLOSECLI_PROVIDER_BASE_URL", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation")
		})
	}
}
