// Package app wires a validated config into a ready-to-run session.
package app

import (
	"fmt"

	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/marketdata"
	"github.com/rustyeddy/papertrader/marketdata/oanda"
	"github.com/rustyeddy/papertrader/marketdata/yahoo"
	"github.com/rustyeddy/papertrader/metrics"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/rustyeddy/papertrader/session"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/rustyeddy/papertrader/strategies"
	"go.uber.org/zap"
)

// App holds everything a command needs for the life of one process.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Session *session.Session
	Journal journal.Journal
	Metrics *metrics.Recorder
}

// NewProvider returns the market data provider named in cfg.
func NewProvider(cfg config.DataConfig) (marketdata.Provider, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, fmt.Errorf("data.http_timeout: %w", err)
	}

	switch cfg.Provider {
	case "yahoo":
		return yahoo.NewClient(cfg.YahooBaseURL, timeout), nil
	case "oanda":
		if cfg.OandaToken == "" {
			return nil, fmt.Errorf("oanda provider needs a token")
		}
		return oanda.NewClient(cfg.OandaToken, cfg.OandaPractice, timeout), nil
	case "random":
		return marketdata.NewRandom(cfg.RandomSeed, 100, 0.002), nil
	case "csv":
		step, err := market.ParseSpan(cfg.CSVInterval)
		if err != nil {
			return nil, fmt.Errorf("data.csv_interval: %w", err)
		}
		r, err := marketdata.LoadRecorded(cfg.CSVFile, step)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.Provider)
	}
}

// Build validates cfg and assembles the session with its provider, notifier,
// journal and metrics recorder.
func Build(cfg *config.Config, log *zap.Logger, opts ...session.Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	data, err := NewProvider(cfg.Data)
	if err != nil {
		return nil, err
	}
	return BuildWithProvider(cfg, log, data, opts...)
}

// BuildWithProvider is Build with an explicit market data provider.
func BuildWithProvider(cfg *config.Config, log *zap.Logger, data marketdata.Provider, opts ...session.Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	j, err := journal.Open(journal.Options{
		Type:       cfg.Journal.Type,
		TradesFile: cfg.Journal.TradesFile,
		EquityFile: cfg.Journal.EquityFile,
		DBPath:     cfg.Journal.DBPath,
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	rec := metrics.NewRecorder()
	acct := sim.NewAccount(cfg.Account.ID, cfg.Account.Currency, cfg.Account.Balance)

	base := []session.Option{
		session.WithStrategy(strategies.NewPullback(strategies.DefaultPullbackConfig())),
		session.WithNotifier(notify.New(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, log)),
		session.WithJournal(j),
		session.WithLogger(log),
		session.WithMetrics(rec),
	}

	s, err := session.New(session.Config{
		Instruments:  cfg.Strategy.Instruments,
		RiskFraction: cfg.Strategy.RiskFraction,
		Trend:        cfg.Strategy.Trend,
		Entry:        cfg.Strategy.Entry,
		Manage:       cfg.Strategy.Manage,
	}, sim.NewLedger(acct), data, append(base, opts...)...)
	if err != nil {
		_ = j.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Session: s,
		Journal: j,
		Metrics: rec,
	}, nil
}

// Close flushes the journal and the logger.
func (a *App) Close() error {
	err := a.Journal.Close()
	_ = a.Log.Sync()
	return err
}
