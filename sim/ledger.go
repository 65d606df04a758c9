// Package sim keeps the paper account and the per-instrument trade ledger.
package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/papertrader/internal/id"
	"github.com/rustyeddy/papertrader/risk"
)

var (
	// ErrTradeExists is returned when opening an instrument that already
	// holds an open trade.
	ErrTradeExists = errors.New("trade already open")

	// ErrInvalidTrade is returned for plans that break stop < entry < target
	// or size > 0.
	ErrInvalidTrade = errors.New("invalid trade")

	// ErrInvalidPrice is returned for non-finite or non-positive marks.
	ErrInvalidPrice = errors.New("invalid price")
)

// Ledger holds at most one open trade per instrument and settles closes
// into its Account. A Ledger is not safe for concurrent use; a session drives
// it from a single goroutine.
type Ledger struct {
	acct   *Account
	trades map[string]*Trade
	newID  func(time.Time) string
}

// NewLedger returns an empty ledger settling into acct.
func NewLedger(acct *Account) *Ledger {
	return &Ledger{
		acct:   acct,
		trades: make(map[string]*Trade),
		newID:  id.At,
	}
}

// Account returns the settled account.
func (l *Ledger) Account() *Account { return l.acct }

// Has reports whether instr is Open.
func (l *Ledger) Has(instr string) bool {
	_, ok := l.trades[instr]
	return ok
}

// Get returns a copy of the open trade for instr.
func (l *Ledger) Get(instr string) (Trade, bool) {
	t, ok := l.trades[instr]
	if !ok {
		return Trade{}, false
	}
	return *t, true
}

// Len returns the number of open trades.
func (l *Ledger) Len() int { return len(l.trades) }

// Trades returns copies of the open trades ordered by instrument.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, 0, len(l.trades))
	for _, t := range l.trades {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })
	return out
}

// Open moves a flat instrument to Open with the sized plan.
func (l *Ledger) Open(instr string, plan risk.Plan, at time.Time) (Trade, error) {
	if instr == "" {
		return Trade{}, fmt.Errorf("open: empty instrument: %w", ErrInvalidTrade)
	}
	if l.Has(instr) {
		return Trade{}, fmt.Errorf("open %s: %w", instr, ErrTradeExists)
	}
	if err := plan.Validate(); err != nil {
		return Trade{}, fmt.Errorf("open %s: %v: %w", instr, err, ErrInvalidTrade)
	}

	t := &Trade{
		ID:         l.newID(at),
		Instrument: instr,
		Entry:      plan.Entry,
		Stop:       plan.Stop,
		Target:     plan.Target,
		Size:       plan.Size,
		OpenTime:   at,
		Status:     Open,
	}
	l.trades[instr] = t
	return *t, nil
}

// Manage applies the latest price to instr. closed is false when the
// instrument is flat or no threshold was reached; neither case touches the
// balance.
func (l *Ledger) Manage(instr string, price float64, at time.Time) (c Closure, closed bool, err error) {
	t, ok := l.trades[instr]
	if !ok {
		return Closure{}, false, nil
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return Closure{}, false, fmt.Errorf("manage %s: price %v: %w", instr, price, ErrInvalidPrice)
	}

	status, exit, hit := exitFor(t, price)
	if !hit {
		return Closure{}, false, nil
	}

	pnl := t.PnLAt(exit)

	// Settle and drop together: the instrument is Flat exactly when the
	// balance reflects the close.
	balance := l.acct.settle(pnl)
	delete(l.trades, instr)

	done := *t
	done.Status = status

	return Closure{
		Trade:     done,
		ExitPrice: exit,
		Mark:      price,
		CloseTime: at,
		PnL:       pnl,
		Balance:   balance,
	}, true, nil
}
