package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads envFile into the process environment without replacing
// variables that are already set. A missing file is not an error.
func LoadEnv(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// ApplyEnv overrides c with any of the supported environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("STARTING_BALANCE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STARTING_BALANCE: %w", err)
		}
		c.Account.Balance = f
	}
	if v, ok := get("RISK_PER_TRADE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RISK_PER_TRADE: %w", err)
		}
		c.Strategy.RiskFraction = f
	}
	if v, ok := get("TICKERS"); ok {
		var list []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, strings.ToUpper(s))
			}
		}
		c.Strategy.Instruments = list
	}
	if v, ok := get("SCAN_INTERVAL"); ok {
		if _, err := parseInterval(v); err != nil {
			return fmt.Errorf("SCAN_INTERVAL: %w", err)
		}
		c.Scan.Interval = v
	}
	if v, ok := get("TELEGRAM_BOT_TOKEN"); ok {
		c.Notify.TelegramToken = v
	}
	if v, ok := get("TELEGRAM_CHAT_ID"); ok {
		c.Notify.TelegramChatID = v
	}
	if v, ok := get("OANDA_TOKEN"); ok {
		c.Data.OandaToken = v
	}
	if v, ok := get("DATA_PROVIDER"); ok {
		c.Data.Provider = strings.ToLower(v)
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

// parseInterval accepts a Go duration ("5m") or a bare number of seconds
// ("300").
func parseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty interval")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
