package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvanus-labs/machetli/internal/driver"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "environment.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadEnvironmentConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
batch_size = 4
deterministic = true
loglevel = "debug"
`)
	cfg, err := driver.LoadEnvironmentConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.True(t, cfg.Deterministic)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1800, cfg.TimeoutSeconds, "unset keys keep their default")
}

func TestLoadEnvironmentConfig_RejectsUnrecognizedKeys(t *testing.T) {
	path := writeConfig(t, `nonexistent_option = true`)
	_, err := driver.LoadEnvironmentConfig(path)
	assert.Error(t, err)
}

func TestLoadEnvironmentConfig_RejectsNonPositiveBatchSize(t *testing.T) {
	path := writeConfig(t, `batch_size = 0`)
	_, err := driver.LoadEnvironmentConfig(path)
	assert.Error(t, err)
}
