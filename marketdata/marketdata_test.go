package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rustyeddy/papertrader/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hourly = market.Timeframe{Interval: "1h", Lookback: "5d"}

func TestFetch_EmptyIsNoData(t *testing.T) {
	ctx := context.Background()
	p := NewStatic()

	_, err := Fetch(ctx, p, "SPY", hourly)
	assert.ErrorIs(t, err, ErrNoData)

	p.SetSeries(market.Series{Instrument: "SPY", Timeframe: hourly})
	_, err = Fetch(ctx, p, "SPY", hourly)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetch_FillsIdentity(t *testing.T) {
	p := NewStatic()
	p.SetSeries(market.Series{Timeframe: market.Timeframe{Interval: "1h"}, Candles: []market.Candle{{Close: 1}}})

	s, err := Fetch(context.Background(), p, "", market.Timeframe{Interval: "1h", Lookback: "5d"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	p.Set("QQQ", hourly, 1, 2, 3)
	s, err = Fetch(context.Background(), p, "QQQ", hourly)
	require.NoError(t, err)
	assert.Equal(t, "QQQ", s.Instrument)
	assert.Equal(t, []float64{1, 2, 3}, s.Closes())
}

func TestStatic_Fail(t *testing.T) {
	p := NewStatic()
	boom := errors.New("boom")
	p.Set("SPY", hourly, 1, 2)
	p.Fail("SPY", hourly, boom)

	_, err := Fetch(context.Background(), p, "SPY", hourly)
	assert.ErrorIs(t, err, boom)
}

func TestStatic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic().Series(ctx, "SPY", hourly)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandom(t *testing.T) {
	r := NewRandom(42, 100, 0.01)
	now := time.Date(2024, 1, 5, 16, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	tf := market.Timeframe{Interval: "15m", Lookback: "1d"}
	s, err := r.Series(context.Background(), "SPY", tf)
	require.NoError(t, err)
	require.Equal(t, 96, s.Len())

	first := s.Candles[0]
	assert.Equal(t, 100.0, first.Open)
	last, _ := s.Last()
	assert.Equal(t, now, last.Time)

	for i, c := range s.Candles {
		assert.Greater(t, c.Close, 0.0)
		assert.GreaterOrEqual(t, c.High, c.Close)
		assert.LessOrEqual(t, c.Low, c.Close)
		if i > 0 {
			assert.Equal(t, s.Candles[i-1].Close, c.Open)
			assert.Equal(t, 15*time.Minute, c.Time.Sub(s.Candles[i-1].Time))
		}
	}

	// The walk continues from the last served close.
	next, err := r.Series(context.Background(), "SPY", tf)
	require.NoError(t, err)
	assert.Equal(t, last.Close, next.Candles[0].Open)

	_, err = r.Series(context.Background(), "SPY", market.Timeframe{Interval: "bad", Lookback: "1d"})
	assert.Error(t, err)
}
