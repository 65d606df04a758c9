package marketdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/papertrader/market"
)

// Recorded serves series cut from recorded base candles, such as the output
// of "trader data fetch". Requested timeframes are resampled from the base
// interval. Windows end at the as-of time, which defaults to the close of
// the last recorded bar; a bar is visible only once it has closed.
type Recorded struct {
	mu   sync.RWMutex
	base map[string][]market.Candle
	step time.Duration
	asOf time.Time
}

// NewRecorded returns a provider over base candles of interval step.
func NewRecorded(base map[string][]market.Candle, step time.Duration) (*Recorded, error) {
	if step <= 0 {
		return nil, fmt.Errorf("recorded: base interval %v must be positive", step)
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("recorded: no candles")
	}
	for instr, cs := range base {
		sort.Slice(cs, func(i, j int) bool { return cs[i].Time.Before(cs[j].Time) })
		base[instr] = cs
	}
	return &Recorded{base: base, step: step}, nil
}

// LoadRecorded reads a candle CSV and wraps it in a Recorded provider.
func LoadRecorded(path string, step time.Duration) (*Recorded, error) {
	base, err := LoadCandlesCSV(path)
	if err != nil {
		return nil, err
	}
	return NewRecorded(base, step)
}

// Instruments returns the recorded instruments in name order.
func (r *Recorded) Instruments() []string {
	out := make([]string, 0, len(r.base))
	for k := range r.base {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Span returns the open time of the first bar and the close time of the
// last bar over all instruments.
func (r *Recorded) Span() (first, last time.Time) {
	for _, cs := range r.base {
		if len(cs) == 0 {
			continue
		}
		if first.IsZero() || cs[0].Time.Before(first) {
			first = cs[0].Time
		}
		end := cs[len(cs)-1].Time.Add(r.step)
		if end.After(last) {
			last = end
		}
	}
	return first, last
}

// SetAsOf moves the end of every served window. The zero time restores the
// default.
func (r *Recorded) SetAsOf(t time.Time) {
	r.mu.Lock()
	r.asOf = t
	r.mu.Unlock()
}

// AsOf returns the current window end.
func (r *Recorded) AsOf() time.Time {
	r.mu.RLock()
	t := r.asOf
	r.mu.RUnlock()
	if t.IsZero() {
		_, t = r.Span()
	}
	return t
}

func (r *Recorded) Series(ctx context.Context, instrument string, tf market.Timeframe) (market.Series, error) {
	if err := ctx.Err(); err != nil {
		return market.Series{}, err
	}
	iv, err := tf.IntervalDuration()
	if err != nil {
		return market.Series{}, err
	}
	lb, err := tf.LookbackDuration()
	if err != nil {
		return market.Series{}, err
	}
	if iv < r.step || iv%r.step != 0 {
		return market.Series{}, fmt.Errorf("recorded: interval %s is not a multiple of the base interval %v", tf.Interval, r.step)
	}

	cs, ok := r.base[instrument]
	if !ok {
		return market.Series{}, ErrNoData
	}

	now := r.AsOf()
	from := now.Add(-lb)

	// closed base bars with open time in [from, now-step]
	lo := sort.Search(len(cs), func(i int) bool { return !cs[i].Time.Before(from) })
	hi := sort.Search(len(cs), func(i int) bool { return cs[i].Time.Add(r.step).After(now) })

	out := market.Series{Instrument: instrument, Timeframe: tf}
	if lo >= hi {
		return out, nil
	}
	out.Candles = Resample(cs[lo:hi], iv)
	return out, nil
}

// Resample folds candles into buckets of d aligned to the Unix epoch. The
// last bucket may be partial.
func Resample(cs []market.Candle, d time.Duration) []market.Candle {
	var out []market.Candle
	for _, c := range cs {
		bucket := c.Time.Truncate(d)
		if n := len(out); n > 0 && out[n-1].Time.Equal(bucket) {
			b := &out[n-1]
			if c.High > b.High {
				b.High = c.High
			}
			if c.Low < b.Low {
				b.Low = c.Low
			}
			b.Close = c.Close
			b.Volume += c.Volume
			continue
		}
		c.Time = bucket
		out = append(out, c)
	}
	return out
}
