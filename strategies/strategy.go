// Package strategies turns indicator lines into entry signals.
package strategies

import (
	"github.com/rustyeddy/papertrader/indicators"
	"github.com/rustyeddy/papertrader/market"
)

// ErrNotReady is wrapped by evaluations that lacked enough history.
// A not-ready evaluation never fires.
var ErrNotReady = indicators.ErrNotReady

// EntryStrategy decides whether a flat instrument should be opened.
//
// medium carries the trend timeframe and short the entry timeframe. Each is
// judged on its own latest bar.
type EntryStrategy interface {
	Name() string
	Evaluate(medium, short market.Series) (Signal, error)
}

// Signal is the outcome of one evaluation.
type Signal struct {
	Instrument string
	Fire       bool

	// Price is the latest close of the entry timeframe, the paper fill price.
	Price float64

	Trend Trend
	Entry Entry
}
