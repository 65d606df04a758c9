// Package market holds the price data types shared by providers and the
// signal code.
package market

import "time"

// Candle represents one OHLC bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered run of candles for one instrument on one timeframe.
// Candles are oldest first.
type Series struct {
	Instrument string
	Timeframe  Timeframe
	Candles    []Candle
}

// Len returns the number of candles.
func (s Series) Len() int { return len(s.Candles) }

// Empty reports whether the series carries no data.
func (s Series) Empty() bool { return len(s.Candles) == 0 }

// Closes returns the close prices, oldest first.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Last returns the most recent candle. ok is false for an empty series.
func (s Series) Last() (c Candle, ok bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}
