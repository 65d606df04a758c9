// Package notify delivers operator messages to Telegram or the log.
package notify

import (
	"context"
	"fmt"

	"github.com/rustyeddy/papertrader/sim"
	"go.uber.org/zap"
)

// Notifier sends one human-readable message.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Console writes messages to the logger instead of a chat.
type Console struct {
	Log *zap.Logger
}

func (c Console) Notify(_ context.Context, text string) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("notify", zap.String("text", text))
	return nil
}

// New returns a Telegram notifier when both token and chatID are set, and
// a Console notifier otherwise.
func New(token, chatID string, log *zap.Logger) Notifier {
	if token == "" || chatID == "" {
		return Console{Log: log}
	}
	return NewTelegram(token, chatID)
}

// Startup is sent once when a session starts.
func Startup() string {
	return "✅ Veteran Paper Bot ONLINE\nAuto-scan + auto-paper-trading active"
}

// Opened announces a new paper trade.
func Opened(t sim.Trade) string {
	return fmt.Sprintf("📈 PAPER BUY %s\nEntry: %.2f\nStop: %.2f\nTarget: %.2f",
		t.Instrument, t.Entry, t.Stop, t.Target)
}

// Closed announces a stop or target close.
func Closed(c sim.Closure) string {
	switch c.Trade.Status {
	case sim.ClosedByStop:
		return fmt.Sprintf("❌ STOP HIT %s | PnL: %.2f", c.Trade.Instrument, c.PnL)
	case sim.ClosedByTarget:
		return fmt.Sprintf("✅ TARGET HIT %s | PnL: %.2f", c.Trade.Instrument, c.PnL)
	default:
		return fmt.Sprintf("CLOSED %s (%s) | PnL: %.2f", c.Trade.Instrument, c.Trade.Status, c.PnL)
	}
}
