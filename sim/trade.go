package sim

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a paper trade.
type Status int

const (
	Open Status = iota
	ClosedByStop
	ClosedByTarget
)

func (s Status) String() string {
	switch s {
	case Open:
		return "Open"
	case ClosedByStop:
		return "StopLoss"
	case ClosedByTarget:
		return "TakeProfit"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Closed reports whether s is a terminal trade state.
func (s Status) Closed() bool {
	return s == ClosedByStop || s == ClosedByTarget
}

// Trade is a long paper position. While Open it is owned by the Ledger.
type Trade struct {
	ID         string
	Instrument string

	Entry  float64
	Stop   float64
	Target float64
	Size   float64

	OpenTime time.Time
	Status   Status
}

// PnLAt returns the profit or loss of closing at exit.
func (t Trade) PnLAt(exit float64) float64 {
	return (exit - t.Entry) * t.Size
}

// Closure describes one Open → Flat transition.
type Closure struct {
	Trade Trade

	// ExitPrice is the threshold the trade closed at; Mark is the observed
	// price that triggered it.
	ExitPrice float64
	Mark      float64
	CloseTime time.Time

	PnL     float64
	Balance float64 // account balance after settlement
}

// Reason returns the close reason recorded in journals.
func (c Closure) Reason() string { return c.Trade.Status.String() }
