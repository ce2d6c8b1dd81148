package autolink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 610.0, cfg.Belt.LiftProbeLength)
	assert.Equal(t, 310.0, cfg.Belt.DefaultProbeLength)
	assert.Equal(t, 100.0, cfg.Belt.LiftMinDistance)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
belt:
  lift_min_distance: 80
hyper:
  enabled: false
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Belt.LiftMinDistance)
	assert.Equal(t, 10.0, cfg.Belt.BeltProbeLength)
	assert.True(t, cfg.Belt.Enabled)
	assert.False(t, cfg.Hyper.Enabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("track:\n  radius: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(strings.NewReader("belt:\n  probe: 3\n"))
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autolink.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fluid:\n  radius: 25\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25.0, cfg.Fluid.Radius)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
