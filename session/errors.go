package session

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrader/marketdata"
	"github.com/rustyeddy/papertrader/risk"
	"github.com/rustyeddy/papertrader/sim"
	"github.com/rustyeddy/papertrader/strategies"
)

// Kind classifies a failure inside a pass.
type Kind int

const (
	KindUnexpected Kind = iota
	KindDataUnavailable
	KindIndicatorNotReady
	KindDegenerateSizing
	KindNotificationFailure
)

func (k Kind) String() string {
	switch k {
	case KindDataUnavailable:
		return "DataUnavailable"
	case KindIndicatorNotReady:
		return "IndicatorNotReady"
	case KindDegenerateSizing:
		return "DegenerateSizing"
	case KindNotificationFailure:
		return "NotificationFailure"
	default:
		return "UnexpectedFailure"
	}
}

// Error is one classified failure. Instrument is empty for pass-level
// failures.
type Error struct {
	Kind       Kind
	Instrument string
	Op         string
	Err        error
}

func (e *Error) Error() string {
	if e.Instrument == "" {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %s %s: %v", e.Kind, e.Op, e.Instrument, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps err onto a Kind using the package sentinels.
func Classify(err error) Kind {
	var se *Error
	switch {
	case err == nil:
		return KindUnexpected
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, marketdata.ErrNoData), errors.Is(err, sim.ErrInvalidPrice):
		return KindDataUnavailable
	case errors.Is(err, strategies.ErrNotReady):
		return KindIndicatorNotReady
	case errors.Is(err, risk.ErrDegenerateSizing):
		return KindDegenerateSizing
	default:
		return KindUnexpected
	}
}

func newError(kind Kind, instrument, op string, err error) *Error {
	return &Error{Kind: kind, Instrument: instrument, Op: op, Err: err}
}
