// Package journal records closed paper trades and balance snapshots. The
// ledger keeps no history; the journal is where history lives.
package journal

import "time"

// TradeRecord is one closed trade.
type TradeRecord struct {
	TradeID    string
	Instrument string
	Size       float64
	EntryPrice float64
	StopPrice  float64
	Target     float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

// EquitySnapshot is the account state at the end of a scan pass.
type EquitySnapshot struct {
	Time       time.Time
	Balance    float64
	NetPnL     float64
	OpenTrades int
}

// Journal is a sink for trade history. Implementations must not be relied on
// for ledger state; a failed write loses history only.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }

// Summary aggregates closed trades.
type Summary struct {
	Trades      int
	Wins        int
	Losses      int
	NetPL       float64
	GrossProfit float64
	GrossLoss   float64
}

// WinRate returns Wins/Trades, or 0 with no trades.
func (s Summary) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Trades)
}

// ProfitFactor returns GrossProfit/GrossLoss, or 0 without losses.
func (s Summary) ProfitFactor() float64 {
	if s.GrossLoss == 0 {
		return 0
	}
	return s.GrossProfit / s.GrossLoss
}

// Summarize folds recs into a Summary.
func Summarize(recs []TradeRecord) Summary {
	var s Summary
	for _, r := range recs {
		s.Trades++
		s.NetPL += r.RealizedPL
		switch {
		case r.RealizedPL > 0:
			s.Wins++
			s.GrossProfit += r.RealizedPL
		case r.RealizedPL < 0:
			s.Losses++
			s.GrossLoss -= r.RealizedPL
		}
	}
	return s
}
