// Package risk converts an entry and an account balance into a sized,
// bracketed long position.
package risk

import (
	"errors"
	"fmt"
	"math"
)

const (
	// StopOffset places the stop 1% below entry.
	StopOffset = 0.01
	// TargetOffset places the target 2% above entry.
	TargetOffset = 0.02
)

// ErrDegenerateSizing is returned when inputs cannot produce a finite,
// positive size. No trade should be opened.
var ErrDegenerateSizing = errors.New("degenerate sizing")

// Inputs are the values a plan is sized from.
type Inputs struct {
	Entry        float64
	Balance      float64
	RiskFraction float64 // 0 < r < 1, e.g. 0.01
}

// Plan is a sized long position with its exits.
type Plan struct {
	Entry      float64
	Stop       float64
	Target     float64
	Size       float64
	RiskAmount float64
}

// Calculate sizes a fixed-fractional long: the loss at the stop equals
// Balance*RiskFraction.
func Calculate(in Inputs) (Plan, error) {
	if !finite(in.Entry) || in.Entry <= 0 {
		return Plan{}, fmt.Errorf("entry %v must be positive: %w", in.Entry, ErrDegenerateSizing)
	}
	if !finite(in.Balance) || in.Balance <= 0 {
		return Plan{}, fmt.Errorf("balance %v must be positive: %w", in.Balance, ErrDegenerateSizing)
	}
	if !(in.RiskFraction > 0 && in.RiskFraction < 1) {
		return Plan{}, fmt.Errorf("risk fraction %v must be in (0,1): %w", in.RiskFraction, ErrDegenerateSizing)
	}

	stop := in.Entry * (1 - StopOffset)
	target := in.Entry * (1 + TargetOffset)
	riskAmt := in.Balance * in.RiskFraction

	dist := in.Entry - stop
	if dist <= 0 {
		return Plan{}, fmt.Errorf("stop distance %v: %w", dist, ErrDegenerateSizing)
	}

	size := riskAmt / dist
	if !finite(size) || size <= 0 {
		return Plan{}, fmt.Errorf("size %v: %w", size, ErrDegenerateSizing)
	}

	return Plan{
		Entry:      in.Entry,
		Stop:       stop,
		Target:     target,
		Size:       size,
		RiskAmount: riskAmt,
	}, nil
}

// Validate checks the plan invariants: stop < entry < target and size > 0.
func (p Plan) Validate() error {
	if !(p.Stop < p.Entry && p.Entry < p.Target) {
		return fmt.Errorf("want stop < entry < target, got %v / %v / %v", p.Stop, p.Entry, p.Target)
	}
	if !finite(p.Size) || p.Size <= 0 {
		return fmt.Errorf("size %v must be positive", p.Size)
	}
	return nil
}

// RR reports the planned reward to risk ratio.
func (p Plan) RR() float64 {
	return RR(p.Entry, p.Stop, p.Target)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
