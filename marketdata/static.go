package marketdata

import (
	"context"
	"sync"

	"github.com/rustyeddy/papertrader/market"
)

// Static serves series that were loaded into it, mostly in tests.
type Static struct {
	mu     sync.RWMutex
	series map[string]market.Series
	errs   map[string]error
}

// NewStatic returns an empty static provider.
func NewStatic() *Static {
	return &Static{
		series: make(map[string]market.Series),
		errs:   make(map[string]error),
	}
}

func staticKey(instrument string, tf market.Timeframe) string {
	return instrument + "|" + tf.Interval
}

// Set stores closes for instrument on the interval of tf.
func (s *Static) Set(instrument string, tf market.Timeframe, closes ...float64) {
	series := market.Series{Instrument: instrument, Timeframe: tf}
	for _, c := range closes {
		series.Candles = append(series.Candles, market.Candle{Open: c, High: c, Low: c, Close: c})
	}
	s.SetSeries(series)
}

// SetSeries stores a complete series under its instrument and interval.
func (s *Static) SetSeries(series market.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[staticKey(series.Instrument, series.Timeframe)] = series
}

// Fail makes every lookup of instrument on tf return err.
func (s *Static) Fail(instrument string, tf market.Timeframe, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[staticKey(instrument, tf)] = err
}

func (s *Static) Series(ctx context.Context, instrument string, tf market.Timeframe) (market.Series, error) {
	if err := ctx.Err(); err != nil {
		return market.Series{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	key := staticKey(instrument, tf)
	if err, ok := s.errs[key]; ok {
		return market.Series{}, err
	}
	series, ok := s.series[key]
	if !ok {
		return market.Series{}, ErrNoData
	}
	return series, nil
}
