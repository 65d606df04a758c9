// Package indicators provides technical analysis indicators over close prices.
package indicators

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when an indicator value is read before its warmup
// completed.
var ErrNotReady = errors.New("indicator not ready")

// Indicator computes a single streaming value from closes.
// It is deterministic and safe to use on live and recorded data.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed price.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value. If !Ready() it returns 0; callers
	// must check Ready().
	Value() float64
}

// Line is an indicator output aligned index-for-index with its input series.
// Slots before Warmup hold 0 and are not ready.
type Line struct {
	Name   string
	Values []float64

	// Warmup is the index of the first ready value.
	Warmup int
}

// Len returns the number of slots in the line.
func (l Line) Len() int { return len(l.Values) }

// Ready reports whether the value at index i may be consumed.
func (l Line) Ready(i int) bool {
	return i >= l.Warmup && i >= 0 && i < len(l.Values)
}

// At returns the value at index i, or ErrNotReady.
func (l Line) At(i int) (float64, error) {
	if !l.Ready(i) {
		return 0, fmt.Errorf("%s at %d of %d: %w", l.Name, i, len(l.Values), ErrNotReady)
	}
	return l.Values[i], nil
}

// Last returns the most recent value, or ErrNotReady.
func (l Line) Last() (float64, error) {
	return l.At(len(l.Values) - 1)
}

// Run feeds every price of series through ind and collects the output line.
// The indicator is reset first.
func Run(ind Indicator, series []float64) Line {
	ind.Reset()

	line := Line{
		Name:   ind.Name(),
		Values: make([]float64, len(series)),
		Warmup: len(series),
	}
	for i, p := range series {
		ind.Update(p)
		if !ind.Ready() {
			continue
		}
		if line.Warmup == len(series) {
			line.Warmup = i
		}
		line.Values[i] = ind.Value()
	}
	return line
}

// EMA computes the exponential moving average line of series.
func EMA(series []float64, length int) (Line, error) {
	if length < 1 {
		return Line{}, fmt.Errorf("EMA length must be >= 1, got %d", length)
	}
	return Run(NewEMA(length), series), nil
}

// RSI computes the relative strength index line of series.
func RSI(series []float64, length int) (Line, error) {
	if length < 1 {
		return Line{}, fmt.Errorf("RSI length must be >= 1, got %d", length)
	}
	return Run(NewRSI(length), series), nil
}
