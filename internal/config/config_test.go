package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 40.0, cfg.Velocity)
	assert.Equal(t, 3.0, cfg.Penalty())
	assert.Equal(t, "state", cfg.Dedup)
	assert.Equal(t, "data/linhas.csv", cfg.Data.Lines)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 256, cfg.Server.CacheSize)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
data:
  lines: custom/lines.csv
velocity: 60
transfer_penalty: 0
max_iterations: 500
dedup: path
start: e14,vermelho
goal: e6,azul
server:
  addr: 127.0.0.1:9000
log:
  level: debug
  format: json
`)

	cfg, got, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	assert.Equal(t, "custom/lines.csv", cfg.Data.Lines)
	assert.Equal(t, "data/distancia_real.csv", cfg.Data.RealDistance)
	assert.Equal(t, 60.0, cfg.Velocity)
	assert.Equal(t, 0.0, cfg.Penalty(), "explicit zero penalty must survive defaults")
	assert.Equal(t, 500, cfg.MaxIterations)
	assert.Equal(t, "path", cfg.Dedup)
	assert.Equal(t, "e14,vermelho", cfg.Start)
	assert.Equal(t, "e6,azul", cfg.Goal)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "velocity: 60\n")
	t.Setenv("METRO_VELOCITY", "30,5")
	t.Setenv("METRO_TRANSFER_PENALTY", "5")
	t.Setenv("METRO_DEDUP", "path")
	t.Setenv("METRO_ADDR", ":9999")

	cfg, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 30.5, cfg.Velocity)
	assert.Equal(t, 5.0, cfg.Penalty())
	assert.Equal(t, "path", cfg.Dedup)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestEnvOverrideRejectsGarbage(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("METRO_MAX_ITERATIONS", "many")

	_, _, err := LoadFromPath(path)
	assert.ErrorContains(t, err, "METRO_MAX_ITERATIONS")
}

func TestLoadUsesMetroConfigVariable(t *testing.T) {
	path := writeConfig(t, "velocity: 80\n")
	t.Setenv("METRO_CONFIG", path)

	cfg, got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 80.0, cfg.Velocity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative velocity", func(c *Config) { c.Velocity = -1 }},
		{"negative penalty", func(c *Config) { p := -2.0; c.TransferPenalty = &p }},
		{"negative iterations", func(c *Config) { c.MaxIterations = -1 }},
		{"unknown dedup", func(c *Config) { c.Dedup = "best" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Start = "e1,azul"
	path := filepath.Join(t.TempDir(), "out.yaml")

	require.NoError(t, cfg.Save(path))
	loaded, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
