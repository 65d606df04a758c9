// Package config loads and validates the paper-trading bot configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/papertrader/market"
	"gopkg.in/yaml.v3"
)

// Config represents the complete bot configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Scan     ScanConfig     `json:"scan" yaml:"scan"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Notify   NotifyConfig   `json:"notify" yaml:"notify"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// StrategyConfig lists what to trade, how much to risk and which bars to
// look at.
type StrategyConfig struct {
	Instruments  []string         `json:"instruments" yaml:"instruments"`
	RiskFraction float64          `json:"risk_fraction" yaml:"risk_fraction"`
	Trend        market.Timeframe `json:"trend" yaml:"trend"`
	Entry        market.Timeframe `json:"entry" yaml:"entry"`
	Manage       market.Timeframe `json:"manage" yaml:"manage"`
}

// ScanConfig controls the pass loop.
type ScanConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "5m", "300s"
}

// IntervalDuration parses Interval.
func (s ScanConfig) IntervalDuration() (time.Duration, error) {
	return parseInterval(s.Interval)
}

// DataConfig selects the market data provider.
type DataConfig struct {
	Provider      string `json:"provider" yaml:"provider"` // "yahoo", "oanda", "random" or "csv"
	YahooBaseURL  string `json:"yahoo_base_url,omitempty" yaml:"yahoo_base_url,omitempty"`
	OandaToken    string `json:"oanda_token,omitempty" yaml:"oanda_token,omitempty"`
	OandaPractice bool   `json:"oanda_practice" yaml:"oanda_practice"`
	HTTPTimeout   string `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`
	RandomSeed    int64  `json:"random_seed,omitempty" yaml:"random_seed,omitempty"`

	// CSVFile holds candles written by "trader data fetch"; CSVInterval is
	// their bar interval.
	CSVFile     string `json:"csv_file,omitempty" yaml:"csv_file,omitempty"`
	CSVInterval string `json:"csv_interval,omitempty" yaml:"csv_interval,omitempty"`
}

// Timeout parses HTTPTimeout. Empty means zero, which providers replace
// with their own default.
func (d DataConfig) Timeout() (time.Duration, error) {
	if d.HTTPTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(d.HTTPTimeout)
}

// NotifyConfig holds Telegram credentials. Leaving either empty sends
// notifications to the log.
type NotifyConfig struct {
	TelegramToken  string `json:"telegram_token,omitempty" yaml:"telegram_token,omitempty"`
	TelegramChatID string `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse reads path over the defaults without validating, so environment
// overrides can still be applied.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Strategy.RiskFraction <= 0 || c.Strategy.RiskFraction >= 1 {
		return fmt.Errorf("strategy.risk_fraction must be between 0 and 1")
	}
	if len(c.Strategy.Instruments) == 0 {
		return fmt.Errorf("strategy.instruments must list at least one instrument")
	}
	seen := make(map[string]bool, len(c.Strategy.Instruments))
	for _, in := range c.Strategy.Instruments {
		if in == "" {
			return fmt.Errorf("strategy.instruments contains an empty name")
		}
		if seen[in] {
			return fmt.Errorf("strategy.instruments lists %s twice", in)
		}
		seen[in] = true
	}
	for name, tf := range map[string]market.Timeframe{
		"trend":  c.Strategy.Trend,
		"entry":  c.Strategy.Entry,
		"manage": c.Strategy.Manage,
	} {
		if err := tf.Validate(); err != nil {
			return fmt.Errorf("strategy.%s: %w", name, err)
		}
	}

	iv, err := c.Scan.IntervalDuration()
	if err != nil {
		return fmt.Errorf("scan.interval: %w", err)
	}
	if iv <= 0 {
		return fmt.Errorf("scan.interval must be positive")
	}

	switch c.Data.Provider {
	case "yahoo", "random":
	case "oanda":
		if c.Data.OandaToken == "" {
			return fmt.Errorf("data.oanda_token required for oanda provider")
		}
	case "csv":
		if c.Data.CSVFile == "" {
			return fmt.Errorf("data.csv_file required for csv provider")
		}
		if _, err := market.ParseSpan(c.Data.CSVInterval); err != nil {
			return fmt.Errorf("data.csv_interval: %w", err)
		}
	default:
		return fmt.Errorf("data.provider must be 'yahoo', 'oanda', 'random' or 'csv'")
	}
	if _, err := c.Data.Timeout(); err != nil {
		return fmt.Errorf("data.http_timeout: %w", err)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "PAPER-001",
			Currency: "USD",
			Balance:  10000,
		},
		Strategy: StrategyConfig{
			Instruments:  []string{"SPY", "QQQ", "NVDA"},
			RiskFraction: 0.01,
			Trend:        market.Timeframe{Interval: "1h", Lookback: "5d"},
			Entry:        market.Timeframe{Interval: "15m", Lookback: "5d"},
			Manage:       market.Timeframe{Interval: "1m", Lookback: "1d"},
		},
		Scan: ScanConfig{Interval: "5m"},
		Data: DataConfig{
			Provider:      "yahoo",
			OandaPractice: true,
			HTTPTimeout:   "15s",
			CSVInterval:   "1m",
		},
		Journal: JournalConfig{Type: "none"},
		Log:     LogConfig{Level: "info"},
	}
}
