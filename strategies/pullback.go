package strategies

import (
	"fmt"

	"github.com/rustyeddy/papertrader/indicators"
	"github.com/rustyeddy/papertrader/market"
)

// PullbackConfig holds the periods and thresholds of the pullback strategy.
type PullbackConfig struct {
	TrendPeriod int     // EMA on the medium timeframe, 50
	EntryPeriod int     // EMA on the short timeframe, 20
	RSIPeriod   int     // 14
	RSIMax      float64 // entries need RSI strictly below this, 70
}

// DefaultPullbackConfig returns the stock 50/20/14/70 settings.
func DefaultPullbackConfig() PullbackConfig {
	return PullbackConfig{
		TrendPeriod: 50,
		EntryPeriod: 20,
		RSIPeriod:   14,
		RSIMax:      70,
	}
}

// Trend is the medium timeframe verdict.
type Trend struct {
	Bullish bool
	Close   float64
	EMA     float64
}

// Entry is the short timeframe verdict.
type Entry struct {
	Fire bool

	Close     float64
	PrevClose float64
	EMA       float64
	PrevEMA   float64
	RSI       float64
}

// Pullback buys an upward cross of price through the short EMA while the
// medium timeframe trades above its long EMA, unless RSI is overbought.
type Pullback struct {
	cfg PullbackConfig
}

// NewPullback returns a pullback strategy. Zero fields fall back to defaults.
func NewPullback(cfg PullbackConfig) *Pullback {
	def := DefaultPullbackConfig()
	if cfg.TrendPeriod <= 0 {
		cfg.TrendPeriod = def.TrendPeriod
	}
	if cfg.EntryPeriod <= 0 {
		cfg.EntryPeriod = def.EntryPeriod
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.RSIMax <= 0 {
		cfg.RSIMax = def.RSIMax
	}
	return &Pullback{cfg: cfg}
}

func (p *Pullback) Name() string {
	return fmt.Sprintf("pullback(ema%d/ema%d/rsi%d<%.0f)",
		p.cfg.TrendPeriod, p.cfg.EntryPeriod, p.cfg.RSIPeriod, p.cfg.RSIMax)
}

// Config returns the effective settings.
func (p *Pullback) Config() PullbackConfig { return p.cfg }

// BullishTrend reports whether the latest close is above the trend EMA.
func (p *Pullback) BullishTrend(closes []float64) (Trend, error) {
	ema, err := indicators.EMA(closes, p.cfg.TrendPeriod)
	if err != nil {
		return Trend{}, err
	}

	last := len(closes) - 1
	v, err := ema.At(last)
	if err != nil {
		return Trend{}, fmt.Errorf("trend: %w", err)
	}

	return Trend{
		Bullish: closes[last] > v,
		Close:   closes[last],
		EMA:     v,
	}, nil
}

// PullbackEntry reports an upward cross of the entry EMA on the latest bar
// with RSI below the overbought threshold.
func (p *Pullback) PullbackEntry(closes []float64) (Entry, error) {
	ema, err := indicators.EMA(closes, p.cfg.EntryPeriod)
	if err != nil {
		return Entry{}, err
	}
	rsi, err := indicators.RSI(closes, p.cfg.RSIPeriod)
	if err != nil {
		return Entry{}, err
	}

	last, prev := len(closes)-1, len(closes)-2
	for _, i := range []int{prev, last} {
		if !ema.Ready(i) || !rsi.Ready(i) {
			return Entry{}, fmt.Errorf("entry: need %s and %s at %d of %d: %w",
				ema.Name, rsi.Name, i, len(closes), ErrNotReady)
		}
	}

	e := Entry{
		Close:     closes[last],
		PrevClose: closes[prev],
		EMA:       ema.Values[last],
		PrevEMA:   ema.Values[prev],
		RSI:       rsi.Values[last],
	}
	crossed := e.Close > e.EMA && e.PrevClose < e.PrevEMA
	e.Fire = crossed && e.RSI < p.cfg.RSIMax
	return e, nil
}

// Evaluate combines both timeframes. Any not-ready timeframe returns an error
// wrapping ErrNotReady alongside a non-firing signal.
func (p *Pullback) Evaluate(medium, short market.Series) (Signal, error) {
	sig := Signal{Instrument: short.Instrument}
	if sig.Instrument == "" {
		sig.Instrument = medium.Instrument
	}

	trend, err := p.BullishTrend(medium.Closes())
	if err != nil {
		return sig, err
	}
	sig.Trend = trend

	entry, err := p.PullbackEntry(short.Closes())
	if err != nil {
		return sig, err
	}
	sig.Entry = entry
	sig.Price = entry.Close

	sig.Fire = trend.Bullish && entry.Fire
	return sig, nil
}
