package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	LogLevel string         `json:"log_level" yaml:"log_level"`
	Account  AccountConfig  `json:"account" yaml:"account"`
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

// AccountConfig contains portfolio initialization parameters.
type AccountConfig struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	MinimumMargin  float64 `json:"minimum_margin" yaml:"minimum_margin"`
}

// EngineConfig contains lifecycle policy knobs.
type EngineConfig struct {
	PositionMaxAge string `json:"position_max_age" yaml:"position_max_age"` // e.g. "24h"
	MaxLeverage    int    `json:"max_leverage" yaml:"max_leverage"`         // 0 = uncapped

	TradeHistorySize int `json:"trade_history_size" yaml:"trade_history_size"`
	PriceHistorySize int `json:"price_history_size" yaml:"price_history_size"`
	PerfHistorySize  int `json:"perf_history_size" yaml:"perf_history_size"`
}

// ParseMaxAge converts the position age limit to a duration.
func (e EngineConfig) ParseMaxAge() (time.Duration, error) {
	if e.PositionMaxAge == "" {
		return 0, nil
	}
	return time.ParseDuration(e.PositionMaxAge)
}

// StrategyConfig contains the autonomous-trading driver parameters.
type StrategyConfig struct {
	Name               string  `json:"name" yaml:"name"` // "noop" or "random"
	TriggerProbability float64 `json:"trigger_probability" yaml:"trigger_probability"`
	MaxOpenPositions   int     `json:"max_open_positions" yaml:"max_open_positions"`
	MinLeverage        int     `json:"min_leverage" yaml:"min_leverage"`
	MaxLeverage        int     `json:"max_leverage" yaml:"max_leverage"`
	ProfitMin          float64 `json:"profit_min" yaml:"profit_min"`
	ProfitMax          float64 `json:"profit_max" yaml:"profit_max"`
	LossMin            float64 `json:"loss_min" yaml:"loss_min"`
	LossMax            float64 `json:"loss_max" yaml:"loss_max"`
	MarginFraction     float64 `json:"margin_fraction" yaml:"margin_fraction"`
	Seed               uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// FeedConfig selects the external price source.
type FeedConfig struct {
	Mode    string   `json:"mode" yaml:"mode"` // "poll", "stream" or "none"
	Symbols []string `json:"symbols" yaml:"symbols"`

	// Poll mode: Binance REST base URL and a cron spec with seconds.
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	PollSpec string `json:"poll_spec,omitempty" yaml:"poll_spec,omitempty"`

	// Stream mode: Binance websocket endpoint.
	StreamURL string `json:"stream_url,omitempty" yaml:"stream_url,omitempty"`
}

// JournalConfig contains telemetry output parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	PerfFile   string `json:"perf_file,omitempty" yaml:"perf_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains the HTTP listener parameters.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is consistent.
func (c *Config) Validate() error {
	if c.Account.InitialBalance <= 0 {
		return fmt.Errorf("account.initial_balance must be positive")
	}
	if c.Account.MinimumMargin < 0 {
		return fmt.Errorf("account.minimum_margin must not be negative")
	}
	if _, err := c.Engine.ParseMaxAge(); err != nil {
		return fmt.Errorf("engine.position_max_age: %w", err)
	}
	if c.Engine.MaxLeverage < 0 {
		return fmt.Errorf("engine.max_leverage must not be negative")
	}

	switch strings.ToLower(c.Strategy.Name) {
	case "", "noop", "none":
	case "random":
		s := c.Strategy
		if s.TriggerProbability < 0 || s.TriggerProbability > 1 {
			return fmt.Errorf("strategy.trigger_probability must be in [0,1]")
		}
		if s.MaxOpenPositions < 1 {
			return fmt.Errorf("strategy.max_open_positions must be at least 1")
		}
		if s.MinLeverage < 1 || s.MaxLeverage < s.MinLeverage {
			return fmt.Errorf("strategy leverage bounds must satisfy 1 <= min <= max")
		}
		if s.ProfitMin <= 0 || s.ProfitMax < s.ProfitMin {
			return fmt.Errorf("strategy profit bounds must satisfy 0 < min <= max")
		}
		if s.LossMin <= 0 || s.LossMax < s.LossMin {
			return fmt.Errorf("strategy loss bounds must satisfy 0 < min <= max")
		}
		if s.MarginFraction <= 0 || s.MarginFraction > 1 {
			return fmt.Errorf("strategy.margin_fraction must be in (0,1]")
		}
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy.Name)
	}

	switch c.Feed.Mode {
	case "", "none":
	case "poll", "stream":
		if len(c.Feed.Symbols) == 0 {
			return fmt.Errorf("feed.symbols required for %s mode", c.Feed.Mode)
		}
	default:
		return fmt.Errorf("feed.mode must be 'poll', 'stream' or 'none'")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.PerfFile == "" {
			return fmt.Errorf("journal trades_file and perf_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Account: AccountConfig{
			InitialBalance: 10000,
			MinimumMargin:  1,
		},
		Engine: EngineConfig{
			PositionMaxAge:   "24h",
			TradeHistorySize: 100,
			PriceHistorySize: 50,
			PerfHistorySize:  50,
		},
		Strategy: StrategyConfig{
			Name:               "random",
			TriggerProbability: 0.3,
			MaxOpenPositions:   3,
			MinLeverage:        2,
			MaxLeverage:        10,
			ProfitMin:          20,
			ProfitMax:          80,
			LossMin:            10,
			LossMax:            40,
			MarginFraction:     0.1,
		},
		Feed: FeedConfig{
			Mode:     "poll",
			Symbols:  []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"},
			BaseURL:  "https://api.binance.com",
			PollSpec: "*/10 * * * * *",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
	}
}
