package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dicomstd/pkg/constants"
)

// TestLoadConfig verifies defaults when nothing is configured.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.NotEmpty(t, config.BaseURL)
	assert.Positive(t, config.Concurrency)
	assert.NotEmpty(t, config.LogFormat)
	assert.NotEmpty(t, config.LogOutput)
}

// TestConfig_EnvironmentVariables verifies prefixed environment variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("DICOMSTD_BASE_URL", "https://example.org/html/")
	t.Setenv("DICOMSTD_KEEP_GOING", "true")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/html/", config.BaseURL)
	assert.True(t, config.KeepGoing)
	assert.Equal(t, "debug", config.LogLevel)
}

// TestConfig_File verifies an explicit config file.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dicomstd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://files.example/\nconcurrency: 3\nkeep_going: true\n"), constants.FilePermissions))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://files.example/", config.BaseURL)
	assert.Equal(t, 3, config.Concurrency)
	assert.True(t, config.KeepGoing)
	assert.Equal(t, path, config.ConfigFile)
}

// TestConfig_MissingFile verifies that an explicit but missing file is an error.
func TestConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestConfig_UpdateFromFlags verifies that flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "info", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "json", "error")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "error", config.LogLevel)
}
