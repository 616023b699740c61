package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()
	b, err := yaml.Marshal(doc)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, c.Server.Addr)
	assert.Equal(t, 5*time.Second, c.Server.ReadHeaderTimeout)
	assert.True(t, c.Server.RateLimit.Enabled)
	assert.Equal(t, 60, c.Server.RateLimit.Burst)
	assert.Equal(t, "http://127.0.0.1:8787/rpc", c.Client.Endpoint)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "classic", c.UI.Theme)
}

func TestFileAndEnvOverrides(t *testing.T) {
	p := writeConfig(t, map[string]any{
		"server": map[string]any{
			"addr":       ":9000",
			"rate_limit": map[string]any{"rps": 5, "burst": 10},
		},
		"log": map[string]any{"format": "console"},
	})
	t.Setenv("TODO_LOG_LEVEL", "debug")
	t.Setenv("TODO_SERVER_SHUTDOWN_TIMEOUT", "2s")

	c, err := Load(New(), p)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, 5.0, c.Server.RateLimit.RPS)
	assert.Equal(t, 10, c.Server.RateLimit.Burst)
	assert.Equal(t, "console", c.Log.Format)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 2*time.Second, c.Server.ShutdownTimeout)
}

func TestConfigEnvPath(t *testing.T) {
	p := writeConfig(t, map[string]any{"ui": map[string]any{"theme": "neon"}})
	t.Setenv("TODO_CONFIG", p)

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "neon", c.UI.Theme)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	p := writeConfig(t, map[string]any{"server": map[string]any{"rate_limit": map[string]any{"rps": 0}}})
	_, err := Load(New(), p)
	assert.ErrorContains(t, err, "rate_limit")

	p = writeConfig(t, map[string]any{"log": map[string]any{"format": "xml"}})
	_, err = Load(New(), p)
	assert.ErrorContains(t, err, "log.format")
}
