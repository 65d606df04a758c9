// Package marketdata defines the price source consumed by scan passes and a
// few provider implementations.
package marketdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrader/market"
)

// ErrNoData means the provider has nothing for this instrument right now.
// The instrument is skipped for the pass.
var ErrNoData = errors.New("no market data")

// Provider returns the latest bars of instrument on tf, oldest first.
//
// An empty series and ErrNoData mean the same thing to callers.
type Provider interface {
	Series(ctx context.Context, instrument string, tf market.Timeframe) (market.Series, error)
}

// Fetch calls p and folds an empty result into ErrNoData.
func Fetch(ctx context.Context, p Provider, instrument string, tf market.Timeframe) (market.Series, error) {
	s, err := p.Series(ctx, instrument, tf)
	if err != nil {
		return market.Series{}, fmt.Errorf("%s %s: %w", instrument, tf, err)
	}
	if s.Empty() {
		return market.Series{}, fmt.Errorf("%s %s: %w", instrument, tf, ErrNoData)
	}
	if s.Instrument == "" {
		s.Instrument = instrument
	}
	if s.Timeframe == (market.Timeframe{}) {
		s.Timeframe = tf
	}
	return s, nil
}
