package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(lookupFrom(map[string]string{
		"STARTING_BALANCE":   "25000",
		"RISK_PER_TRADE":     "0.02",
		"TICKERS":            " spy, msft ,,aapl",
		"SCAN_INTERVAL":      "60",
		"TELEGRAM_BOT_TOKEN": "tok",
		"TELEGRAM_CHAT_ID":   "42",
		"OANDA_TOKEN":        "otok",
		"DATA_PROVIDER":      "OANDA",
		"LOG_LEVEL":          "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, 25000.0, cfg.Account.Balance)
	assert.Equal(t, 0.02, cfg.Strategy.RiskFraction)
	assert.Equal(t, []string{"SPY", "MSFT", "AAPL"}, cfg.Strategy.Instruments)
	assert.Equal(t, "tok", cfg.Notify.TelegramToken)
	assert.Equal(t, "42", cfg.Notify.TelegramChatID)
	assert.Equal(t, "otok", cfg.Data.OandaToken)
	assert.Equal(t, "oanda", cfg.Data.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)

	iv, err := cfg.Scan.IntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, iv)

	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookupFrom(map[string]string{"TICKERS": "  ", "STARTING_BALANCE": ""})))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_Errors(t *testing.T) {
	for _, key := range []string{"STARTING_BALANCE", "RISK_PER_TRADE", "SCAN_INTERVAL"} {
		cfg := Default()
		err := cfg.applyEnv(lookupFrom(map[string]string{key: "lots"}))
		assert.ErrorContains(t, err, key)
	}
}

func TestParseInterval(t *testing.T) {
	tests := map[string]time.Duration{
		"300":  5 * time.Minute,
		"5m":   5 * time.Minute,
		"90s":  90 * time.Second,
		"1h0m": time.Hour,
	}
	for in, want := range tests {
		got, err := parseInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseInterval("")
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, LoadEnv(""))
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAPERTRADER_TEST_KEY=from-file\n"), 0o644))

	t.Setenv("PAPERTRADER_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("PAPERTRADER_TEST_KEY"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("PAPERTRADER_TEST_KEY"))
}
