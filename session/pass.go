package session

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/marketdata"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/rustyeddy/papertrader/risk"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/rustyeddy/papertrader/strategies"
	"go.uber.org/zap"
)

// PassReport summarises one pass.
type PassReport struct {
	Started  time.Time
	Finished time.Time

	// Signals holds every completed evaluation of a flat instrument,
	// firing or not.
	Signals []strategies.Signal
	Opened  []sim.Trade
	Closed  []sim.Closure
	Errors  []*Error

	Balance    float64
	OpenTrades int
}

// Pass visits every instrument once, in configured order. An open
// instrument is managed and a flat one is scanned, never both. Failures
// confined to one instrument are collected in the report and the pass moves
// on. The returned error is non-nil only when the pass was abandoned: ctx
// ended or something panicked.
func (s *Session) Pass(ctx context.Context) (rep PassReport, err error) {
	rep.Started = s.now()

	defer func() {
		if r := recover(); r != nil {
			e := newError(KindUnexpected, "", "pass", fmt.Errorf("panic: %v", r))
			s.log.Error("pass abandoned", zap.Error(e), zap.ByteString("stack", debug.Stack()))
			rep.Errors = append(rep.Errors, e)
			s.countError(e)
			err = e
		}
		s.finish(&rep)
	}()

	for _, instr := range s.cfg.Instruments {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		var e *Error
		if s.ledger.Has(instr) {
			e = s.manage(ctx, instr, &rep)
		} else {
			e = s.scan(ctx, instr, &rep)
		}
		if e == nil {
			continue
		}
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}

		rep.Errors = append(rep.Errors, e)
		s.countError(e)
		s.logError(e)
	}
	return rep, nil
}

func (s *Session) finish(rep *PassReport) {
	acct := s.Account()
	rep.Finished = s.now()
	rep.Balance = acct.Balance()
	rep.OpenTrades = s.ledger.Len()

	if err := s.journal.RecordEquity(journal.EquitySnapshot{
		Time:       rep.Finished,
		Balance:    rep.Balance,
		NetPnL:     acct.NetPnL(),
		OpenTrades: rep.OpenTrades,
	}); err != nil {
		s.log.Warn("journal equity failed", zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.PassDone(rep.Finished.Sub(rep.Started), rep.Balance, acct.NetPnL(), rep.OpenTrades)
	}

	s.log.Info("pass complete",
		zap.Time("time", rep.Finished.UTC()),
		zap.Float64("balance", rep.Balance),
		zap.Int("open_trades", rep.OpenTrades),
		zap.Int("opened", len(rep.Opened)),
		zap.Int("closed", len(rep.Closed)),
		zap.Int("errors", len(rep.Errors)),
	)
}

func (s *Session) manage(ctx context.Context, instr string, rep *PassReport) *Error {
	series, err := marketdata.Fetch(ctx, s.data, instr, s.cfg.Manage)
	if err != nil {
		return newError(KindDataUnavailable, instr, "manage", err)
	}
	last, _ := series.Last()

	c, closed, err := s.ledger.Manage(instr, last.Close, s.now())
	if err != nil {
		return newError(Classify(err), instr, "manage", err)
	}
	if !closed {
		s.log.Debug("holding", zap.String("instrument", instr), zap.Float64("price", last.Close))
		return nil
	}
	rep.Closed = append(rep.Closed, c)

	s.log.Info("trade closed",
		zap.String("instrument", instr),
		zap.String("trade_id", c.Trade.ID),
		zap.String("reason", c.Reason()),
		zap.Float64("exit", c.ExitPrice),
		zap.Float64("mark", c.Mark),
		zap.Float64("pnl", c.PnL),
		zap.Float64("balance", c.Balance),
	)
	if s.metrics != nil {
		s.metrics.TradeClosed(instr, c.Reason())
	}
	if err := s.journal.RecordTrade(record(c)); err != nil {
		s.log.Warn("journal trade failed", zap.String("trade_id", c.Trade.ID), zap.Error(err))
	}
	return s.send(ctx, instr, "notify close", notify.Closed(c))
}

func (s *Session) scan(ctx context.Context, instr string, rep *PassReport) *Error {
	trend, err := marketdata.Fetch(ctx, s.data, instr, s.cfg.Trend)
	if err != nil {
		return newError(KindDataUnavailable, instr, "scan", err)
	}
	entry, err := marketdata.Fetch(ctx, s.data, instr, s.cfg.Entry)
	if err != nil {
		return newError(KindDataUnavailable, instr, "scan", err)
	}

	sig, err := s.strategy.Evaluate(trend, entry)
	if err != nil {
		return newError(Classify(err), instr, "evaluate", err)
	}
	sig.Instrument = instr
	rep.Signals = append(rep.Signals, sig)

	s.log.Debug("evaluated",
		zap.String("instrument", instr),
		zap.Bool("fire", sig.Fire),
		zap.Bool("bullish", sig.Trend.Bullish),
		zap.Float64("price", sig.Price),
		zap.Float64("rsi", sig.Entry.RSI),
	)
	if !sig.Fire {
		return nil
	}

	plan, err := risk.Calculate(risk.Inputs{
		Entry:        sig.Price,
		Balance:      s.Account().Balance(),
		RiskFraction: s.cfg.RiskFraction,
	})
	if err != nil {
		return newError(KindDegenerateSizing, instr, "size", err)
	}

	t, err := s.ledger.Open(instr, plan, s.now())
	if err != nil {
		if errors.Is(err, sim.ErrInvalidTrade) {
			return newError(KindDegenerateSizing, instr, "open", err)
		}
		return newError(KindUnexpected, instr, "open", err)
	}
	rep.Opened = append(rep.Opened, t)

	s.log.Info("trade opened",
		zap.String("instrument", instr),
		zap.String("trade_id", t.ID),
		zap.Float64("entry", t.Entry),
		zap.Float64("stop", t.Stop),
		zap.Float64("target", t.Target),
		zap.Float64("size", t.Size),
	)
	if s.metrics != nil {
		s.metrics.TradeOpened(instr)
	}
	return s.send(ctx, instr, "notify open", notify.Opened(t))
}

func (s *Session) send(ctx context.Context, instr, op, text string) *Error {
	if err := s.notifier.Notify(ctx, text); err != nil {
		return newError(KindNotificationFailure, instr, op, err)
	}
	return nil
}

func (s *Session) countError(e *Error) {
	if s.metrics != nil {
		s.metrics.PassError(e.Kind.String())
	}
}

func (s *Session) logError(e *Error) {
	fields := []zap.Field{
		zap.String("instrument", e.Instrument),
		zap.String("kind", e.Kind.String()),
		zap.String("op", e.Op),
		zap.Error(e.Err),
	}
	switch e.Kind {
	case KindDataUnavailable, KindIndicatorNotReady:
		s.log.Info("instrument skipped", fields...)
	default:
		s.log.Warn("instrument failed", fields...)
	}
}

func record(c sim.Closure) journal.TradeRecord {
	return journal.TradeRecord{
		TradeID:    c.Trade.ID,
		Instrument: c.Trade.Instrument,
		Size:       c.Trade.Size,
		EntryPrice: c.Trade.Entry,
		StopPrice:  c.Trade.Stop,
		Target:     c.Trade.Target,
		ExitPrice:  c.ExitPrice,
		OpenTime:   c.Trade.OpenTime,
		CloseTime:  c.CloseTime,
		RealizedPL: c.PnL,
		Reason:     c.Reason(),
	}
}
