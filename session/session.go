// Package session drives scan passes over the configured instruments: it
// manages open paper trades and opens new ones when the entry strategy
// fires.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/marketdata"
	"github.com/rustyeddy/papertrader/metrics"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/rustyeddy/papertrader/strategies"
	"go.uber.org/zap"
)

// Config is what a session trades and how.
type Config struct {
	Instruments  []string
	RiskFraction float64

	Trend  market.Timeframe // medium timeframe, e.g. 1h over 5d
	Entry  market.Timeframe // short timeframe, e.g. 15m over 5d
	Manage market.Timeframe // price check for open trades, e.g. 1m over 1d
}

func (c Config) validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("session: no instruments")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for _, in := range c.Instruments {
		if in == "" {
			return fmt.Errorf("session: empty instrument")
		}
		if seen[in] {
			return fmt.Errorf("session: duplicate instrument %s", in)
		}
		seen[in] = true
	}
	if !(c.RiskFraction > 0 && c.RiskFraction < 1) {
		return fmt.Errorf("session: risk fraction %v must be in (0,1)", c.RiskFraction)
	}
	for _, tf := range []market.Timeframe{c.Trend, c.Entry, c.Manage} {
		if err := tf.Validate(); err != nil {
			return fmt.Errorf("session: %w", err)
		}
	}
	return nil
}

// Option customises a Session.
type Option func(*Session)

func WithStrategy(st strategies.EntryStrategy) Option {
	return func(s *Session) { s.strategy = st }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithJournal(j journal.Journal) Option {
	return func(s *Session) { s.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Session) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session owns the ledger and its account for the life of the process.
// Passes run one at a time from a single goroutine.
type Session struct {
	cfg    Config
	ledger *sim.Ledger
	data   marketdata.Provider

	strategy strategies.EntryStrategy
	notifier notify.Notifier
	journal  journal.Journal
	log      *zap.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
}

// New builds a session over ledger. Unset options default to the pullback
// strategy, a log-only notifier, no journal and no metrics.
func New(cfg Config, ledger *sim.Ledger, data marketdata.Provider, opts ...Option) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, fmt.Errorf("session: nil ledger")
	}
	if data == nil {
		return nil, fmt.Errorf("session: nil market data provider")
	}

	s := &Session{
		cfg:    cfg,
		ledger: ledger,
		data:   data,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.strategy == nil {
		s.strategy = strategies.NewPullback(strategies.DefaultPullbackConfig())
	}
	if s.notifier == nil {
		s.notifier = notify.Console{Log: s.log}
	}
	if s.journal == nil {
		s.journal = journal.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Ledger returns the session ledger.
func (s *Session) Ledger() *sim.Ledger { return s.ledger }

// Account returns the paper account.
func (s *Session) Account() *sim.Account { return s.ledger.Account() }

// Start announces the session. A failed announcement is logged and
// returned but does not prevent passes from running.
func (s *Session) Start(ctx context.Context) error {
	s.log.Info("session start",
		zap.Strings("instruments", s.cfg.Instruments),
		zap.String("strategy", s.strategy.Name()),
		zap.Float64("balance", s.Account().Balance()),
		zap.Float64("risk_fraction", s.cfg.RiskFraction),
	)
	if err := s.notifier.Notify(ctx, notify.Startup()); err != nil {
		e := newError(KindNotificationFailure, "", "startup", err)
		s.log.Warn("startup notification failed", zap.Error(e))
		return e
	}
	return nil
}

// Run starts the session and repeats passes until ctx is done. The next
// pass begins interval after the previous one finished.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("session: interval %v must be positive", interval)
	}
	_ = s.Start(ctx)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if _, err := s.Pass(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Error("pass failed", zap.Error(err))
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			s.log.Info("session stop", zap.Float64("balance", s.Account().Balance()))
			return nil
		case <-timer.C:
		}
	}
}
