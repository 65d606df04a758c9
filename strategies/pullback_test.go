package strategies

import (
	"testing"

	"github.com/rustyeddy/papertrader/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(instr string, closes []float64) market.Series {
	s := market.Series{Instrument: instr}
	for _, c := range closes {
		s.Candles = append(s.Candles, market.Candle{Close: c})
	}
	return s
}

func line(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// dipThenPop falls one point per bar for 30 bars then jumps by pop.
// With pop=15 the last close crosses EMA20 with RSI around 53.6; with
// pop=40 the cross happens with RSI around 75.5.
func dipThenPop(pop float64) []float64 {
	closes := line(30, 130, -1)
	return append(closes, closes[len(closes)-1]+pop)
}

func TestDefaultPullbackConfig(t *testing.T) {
	p := NewPullback(PullbackConfig{})
	assert.Equal(t, DefaultPullbackConfig(), p.Config())
	assert.Equal(t, "pullback(ema50/ema20/rsi14<70)", p.Name())
}

func TestBullishTrend(t *testing.T) {
	p := NewPullback(DefaultPullbackConfig())

	trend, err := p.BullishTrend(line(60, 100, 1))
	require.NoError(t, err)
	assert.True(t, trend.Bullish)
	assert.Greater(t, trend.Close, trend.EMA)

	trend, err = p.BullishTrend(line(60, 200, -1))
	require.NoError(t, err)
	assert.False(t, trend.Bullish)
}

func TestBullishTrend_NeedsFiftyPoints(t *testing.T) {
	p := NewPullback(DefaultPullbackConfig())

	_, err := p.BullishTrend(line(49, 100, 1))
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = p.BullishTrend(nil)
	assert.ErrorIs(t, err, ErrNotReady)

	trend, err := p.BullishTrend(line(50, 100, 1))
	require.NoError(t, err)
	assert.True(t, trend.Bullish)
}

func TestPullbackEntry(t *testing.T) {
	p := NewPullback(DefaultPullbackConfig())

	tests := []struct {
		name   string
		closes []float64
		fire   bool
	}{
		{"cross with moderate rsi", dipThenPop(15), true},
		{"cross while overbought", dipThenPop(40), false},
		{"no cross on a steady rise", line(40, 100, 1), false},
		{"no cross while still falling", line(40, 140, -1), false},
		{"pop not big enough to cross", dipThenPop(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := p.PullbackEntry(tt.closes)
			require.NoError(t, err)
			assert.Equal(t, tt.fire, entry.Fire)
		})
	}
}

func TestPullbackEntry_Values(t *testing.T) {
	p := NewPullback(DefaultPullbackConfig())

	entry, err := p.PullbackEntry(dipThenPop(15))
	require.NoError(t, err)

	assert.Equal(t, 116.0, entry.Close)
	assert.Equal(t, 101.0, entry.PrevClose)
	assert.Less(t, entry.PrevClose, entry.PrevEMA)
	assert.Greater(t, entry.Close, entry.EMA)
	assert.InDelta(t, 53.5714, entry.RSI, 1e-3)
}

func TestPullbackEntry_NotReady(t *testing.T) {
	p := NewPullback(DefaultPullbackConfig())

	for _, n := range []int{0, 1, 14, 20} {
		_, err := p.PullbackEntry(line(n, 100, 1))
		assert.ErrorIs(t, err, ErrNotReady, "n=%d", n)
	}

	_, err := p.PullbackEntry(line(21, 100, 1))
	assert.NoError(t, err)
}

func TestEvaluate(t *testing.T) {
	p := NewPullback(DefaultPullbackConfig())

	t.Run("fires when both agree", func(t *testing.T) {
		sig, err := p.Evaluate(series("SPY", line(60, 100, 1)), series("SPY", dipThenPop(15)))
		require.NoError(t, err)
		assert.True(t, sig.Fire)
		assert.Equal(t, "SPY", sig.Instrument)
		assert.Equal(t, 116.0, sig.Price)
	})

	t.Run("bearish trend blocks entry", func(t *testing.T) {
		sig, err := p.Evaluate(series("SPY", line(60, 200, -1)), series("SPY", dipThenPop(15)))
		require.NoError(t, err)
		assert.True(t, sig.Entry.Fire)
		assert.False(t, sig.Fire)
	})

	t.Run("short trend history never fires", func(t *testing.T) {
		sig, err := p.Evaluate(series("SPY", line(49, 100, 1)), series("SPY", dipThenPop(15)))
		assert.ErrorIs(t, err, ErrNotReady)
		assert.False(t, sig.Fire)
	})

	t.Run("short entry history never fires", func(t *testing.T) {
		sig, err := p.Evaluate(series("SPY", line(60, 100, 1)), series("SPY", line(5, 100, 1)))
		assert.ErrorIs(t, err, ErrNotReady)
		assert.False(t, sig.Fire)
	})
}
