package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/papertrader/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, 0.01, cfg.Strategy.RiskFraction)
	assert.Equal(t, []string{"SPY", "QQQ", "NVDA"}, cfg.Strategy.Instruments)
	assert.Equal(t, market.Timeframe{Interval: "1h", Lookback: "5d"}, cfg.Strategy.Trend)
	assert.Equal(t, market.Timeframe{Interval: "15m", Lookback: "5d"}, cfg.Strategy.Entry)
	assert.Equal(t, market.Timeframe{Interval: "1m", Lookback: "1d"}, cfg.Strategy.Manage)

	iv, err := cfg.Scan.IntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, iv)

	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"missing currency", func(c *Config) { c.Account.Currency = "" }, "account.currency is required"},
		{"negative balance", func(c *Config) { c.Account.Balance = -1000 }, "account.balance must be positive"},
		{"zero risk", func(c *Config) { c.Strategy.RiskFraction = 0 }, "strategy.risk_fraction must be between 0 and 1"},
		{"full risk", func(c *Config) { c.Strategy.RiskFraction = 1 }, "strategy.risk_fraction must be between 0 and 1"},
		{"no instruments", func(c *Config) { c.Strategy.Instruments = nil }, "at least one instrument"},
		{"duplicate instrument", func(c *Config) { c.Strategy.Instruments = []string{"SPY", "QQQ", "SPY"} }, "lists SPY twice"},
		{"empty instrument", func(c *Config) { c.Strategy.Instruments = []string{"SPY", ""} }, "empty name"},
		{"bad timeframe", func(c *Config) { c.Strategy.Entry.Interval = "15x" }, "strategy.entry"},
		{"lookback too short", func(c *Config) { c.Strategy.Trend.Lookback = "30m" }, "strategy.trend"},
		{"zero interval", func(c *Config) { c.Scan.Interval = "0s" }, "scan.interval must be positive"},
		{"bad interval", func(c *Config) { c.Scan.Interval = "soon" }, "scan.interval"},
		{"unknown provider", func(c *Config) { c.Data.Provider = "bloomberg" }, "data.provider"},
		{"oanda without token", func(c *Config) { c.Data.Provider = "oanda" }, "data.oanda_token"},
		{"csv without file", func(c *Config) { c.Data.Provider = "csv" }, "data.csv_file"},
		{"csv bad interval", func(c *Config) {
			c.Data.Provider = "csv"
			c.Data.CSVFile = "c.csv"
			c.Data.CSVInterval = "often"
		}, "data.csv_interval"},
		{"bad http timeout", func(c *Config) { c.Data.HTTPTimeout = "long" }, "data.http_timeout"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type"},
		{"csv without files", func(c *Config) { c.Journal.Type = "csv" }, "trades_file and equity_file"},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }, "db_path required"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Strategy.Instruments = []string{"AAPL"}
			cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "./trader.db"}

			path := filepath.Join(tmpDir, name)
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFile_PartialUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  id: X\n  currency: EUR\n  balance: 5000\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, 5000.0, cfg.Account.Balance)
	assert.Equal(t, Default().Strategy, cfg.Strategy)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("account: [1, 2\n"), 0o644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "parse config")

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("account:\n  balance: -5\n"), 0o644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "invalid config")
}
