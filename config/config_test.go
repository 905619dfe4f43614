package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	maxAge, err := cfg.Engine.ParseMaxAge()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, maxAge)
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
log_level: debug
account:
  initial_balance: 50000
  minimum_margin: 5
engine:
  position_max_age: 12h
  max_leverage: 20
strategy:
  name: noop
feed:
  mode: none
journal:
  type: csv
  trades_file: trades.csv
  perf_file: perf.csv
server:
  addr: ":8080"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50000.0, cfg.Account.InitialBalance)
	assert.Equal(t, 5.0, cfg.Account.MinimumMargin)
	assert.Equal(t, 20, cfg.Engine.MaxLeverage)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	maxAge, err := cfg.Engine.ParseMaxAge()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, maxAge)
}

func TestLoadFromJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.json")
	data := `{
		"account": {"initial_balance": 25000, "minimum_margin": 1},
		"strategy": {"name": "noop"},
		"feed": {"mode": "none"},
		"server": {"addr": ":9090"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, cfg.Account.InitialBalance)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_balance", func(c *Config) { c.Account.InitialBalance = 0 }},
		{"bad_max_age", func(c *Config) { c.Engine.PositionMaxAge = "tomorrow" }},
		{"bad_probability", func(c *Config) { c.Strategy.TriggerProbability = 1.5 }},
		{"zero_max_open", func(c *Config) { c.Strategy.MaxOpenPositions = 0 }},
		{"inverted_leverage", func(c *Config) { c.Strategy.MinLeverage = 10; c.Strategy.MaxLeverage = 2 }},
		{"bad_margin_fraction", func(c *Config) { c.Strategy.MarginFraction = 0 }},
		{"unknown_strategy", func(c *Config) { c.Strategy.Name = "martingale" }},
		{"poll_without_symbols", func(c *Config) { c.Feed.Symbols = nil }},
		{"bad_feed_mode", func(c *Config) { c.Feed.Mode = "carrier-pigeon" }},
		{"csv_without_paths", func(c *Config) { c.Journal.Type = "csv" }},
		{"sqlite_without_path", func(c *Config) { c.Journal.Type = "sqlite" }},
		{"missing_addr", func(c *Config) { c.Server.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}
