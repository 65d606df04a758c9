package marketdata

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/papertrader/market"
)

// Random is an offline provider producing a random walk per instrument.
// Each call continues the walk from the last close it served for that
// instrument, so repeated passes see prices move.
type Random struct {
	// Start is the first price of every walk.
	Start float64
	// Vol is the maximum fractional move per bar.
	Vol float64

	mu    sync.Mutex
	rng   *rand.Rand
	price map[string]float64
	now   func() time.Time
}

// NewRandom returns a random-walk provider. A zero seed uses the clock.
func NewRandom(seed int64, start, vol float64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if start <= 0 {
		start = 100
	}
	if vol <= 0 {
		vol = 0.002
	}
	return &Random{
		Start: start,
		Vol:   vol,
		rng:   rand.New(rand.NewSource(seed)),
		price: make(map[string]float64),
		now:   time.Now,
	}
}

func (r *Random) Series(ctx context.Context, instrument string, tf market.Timeframe) (market.Series, error) {
	if err := ctx.Err(); err != nil {
		return market.Series{}, err
	}
	n, err := tf.Bars()
	if err != nil {
		return market.Series{}, err
	}
	step, err := tf.IntervalDuration()
	if err != nil {
		return market.Series{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.price[instrument]
	if !ok {
		p = r.Start
	}

	end := r.now().UTC().Truncate(step)
	ts := end.Add(-time.Duration(n-1) * step)

	out := market.Series{Instrument: instrument, Timeframe: tf, Candles: make([]market.Candle, 0, n)}
	for i := 0; i < n; i++ {
		open := p
		ret := (r.rng.Float64() - 0.5) * 2.0 * r.Vol
		closeP := open * (1.0 + ret)
		high := math.Max(open, closeP) * (1.0 + r.rng.Float64()*r.Vol*0.5)
		low := math.Min(open, closeP) * (1.0 - r.rng.Float64()*r.Vol*0.5)

		out.Candles = append(out.Candles, market.Candle{
			Time:   ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeP,
			Volume: 10_000 + r.rng.Float64()*5_000,
		})
		p = closeP
		ts = ts.Add(step)
	}
	r.price[instrument] = p

	return out, nil
}
