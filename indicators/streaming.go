package indicators

import "fmt"

// ExponentialMA is a streaming exponential moving average seeded with the
// first close.
type ExponentialMA struct {
	period int
	alpha  float64

	count int
	ema   float64
}

// NewEMA creates a new exponential moving average with the given period.
// The period must be >= 1.
func NewEMA(period int) *ExponentialMA {
	if period < 1 {
		panic("EMA period must be >= 1")
	}
	return &ExponentialMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }
func (e *ExponentialMA) Warmup() int  { return e.period }
func (e *ExponentialMA) Ready() bool  { return e.count >= e.period }

func (e *ExponentialMA) Reset() {
	e.count = 0
	e.ema = 0
}

func (e *ExponentialMA) Update(close float64) {
	e.count++
	if e.count == 1 {
		e.ema = close
		return
	}
	e.ema = e.alpha*close + (1.0-e.alpha)*e.ema
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}

// RelativeStrength is a streaming RSI using simple rolling means of the last
// period gains and losses.
type RelativeStrength struct {
	period int

	seen   int
	prev   float64
	gains  []float64
	losses []float64
	next   int
	deltas int
}

// NewRSI creates a new RSI with the given period. The period must be >= 1.
func NewRSI(period int) *RelativeStrength {
	if period < 1 {
		panic("RSI period must be >= 1")
	}
	return &RelativeStrength{
		period: period,
		gains:  make([]float64, period),
		losses: make([]float64, period),
	}
}

func (r *RelativeStrength) Name() string { return fmt.Sprintf("RSI(%d)", r.period) }

// Warmup counts closes, not deltas: period deltas need period+1 closes.
func (r *RelativeStrength) Warmup() int { return r.period + 1 }
func (r *RelativeStrength) Ready() bool { return r.deltas >= r.period }

func (r *RelativeStrength) Reset() {
	r.seen = 0
	r.prev = 0
	r.next = 0
	r.deltas = 0
	for i := range r.gains {
		r.gains[i] = 0
		r.losses[i] = 0
	}
}

func (r *RelativeStrength) Update(close float64) {
	r.seen++
	if r.seen == 1 {
		r.prev = close
		return
	}

	delta := close - r.prev
	r.prev = close

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	// Ring buffer over the last period deltas.
	r.gains[r.next] = gain
	r.losses[r.next] = loss
	r.next = (r.next + 1) % r.period
	r.deltas++
}

// Value returns the RSI. A window with no losses saturates at 100; a window
// with neither gains nor losses is neutral at 50.
func (r *RelativeStrength) Value() float64 {
	if !r.Ready() {
		return 0
	}

	var sumGain, sumLoss float64
	for i := 0; i < r.period; i++ {
		sumGain += r.gains[i]
		sumLoss += r.losses[i]
	}
	avgGain := sumGain / float64(r.period)
	avgLoss := sumLoss / float64(r.period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
