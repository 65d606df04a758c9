package session

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/marketdata"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walk(t *testing.T, start time.Time, instrument string, days int, seed int64) []market.Candle {
	t.Helper()

	r := marketdata.NewRandom(seed, 100, 0.003)
	tf := market.Timeframe{Interval: "1m", Lookback: "1d"}
	var out []market.Candle
	for d := 0; d < days; d++ {
		s, err := r.Series(context.Background(), instrument, tf)
		require.NoError(t, err)
		out = append(out, s.Candles...)
	}
	for i := range out {
		out[i].Time = start.Add(time.Duration(i) * time.Minute)
	}
	return out
}

// Drives many passes over a random walk and checks the ledger accounting.
func TestPass_RecordedWalk(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	data, err := marketdata.NewRecorded(map[string][]market.Candle{
		"AAA": walk(t, start, "AAA", 3, 11),
		"BBB": walk(t, start, "BBB", 3, 12),
	}, time.Minute)
	require.NoError(t, err)

	acct := sim.NewAccount("WALK", "USD", 10000)
	s, err := New(Config{
		Instruments:  data.Instruments(),
		RiskFraction: 0.01,
		Trend:        market.Timeframe{Interval: "15m", Lookback: "1d"},
		Entry:        market.Timeframe{Interval: "5m", Lookback: "1d"},
		Manage:       market.Timeframe{Interval: "1m", Lookback: "1h"},
	}, sim.NewLedger(acct), data, WithClock(data.AsOf))
	require.NoError(t, err)

	_, last := data.Span()
	opened, pnl := 0, 0.0
	var closed []sim.Closure
	for now := start.Add(24 * time.Hour); !now.After(last); now = now.Add(15 * time.Minute) {
		data.SetAsOf(now)
		rep, err := s.Pass(context.Background())
		require.NoError(t, err)
		assert.LessOrEqual(t, len(rep.Opened)+len(rep.Closed), 2, "one action per instrument")

		opened += len(rep.Opened)
		closed = append(closed, rep.Closed...)
	}

	for _, c := range closed {
		pnl += c.PnL
		switch c.Trade.Status {
		case sim.ClosedByStop:
			assert.Equal(t, c.Trade.Stop, c.ExitPrice)
			assert.LessOrEqual(t, c.Mark, c.Trade.Stop)
		case sim.ClosedByTarget:
			assert.Equal(t, c.Trade.Target, c.ExitPrice)
			assert.GreaterOrEqual(t, c.Mark, c.Trade.Target)
		default:
			t.Fatalf("unexpected close status %v", c.Trade.Status)
		}
	}

	assert.InDelta(t, 10000+pnl, acct.Balance(), 1e-6)
	open := s.Ledger().Trades()
	assert.Equal(t, opened, len(closed)+len(open))
	assert.LessOrEqual(t, len(open), 2)
}
