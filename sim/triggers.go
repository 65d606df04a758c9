package sim

// Long-only: stop triggers at or below, target at or above.

func hitStopLoss(t *Trade, price float64) bool {
	return price <= t.Stop
}

func hitTakeProfit(t *Trade, price float64) bool {
	return price >= t.Target
}

// exitFor decides the close for price. Stop is checked first so a gap
// through both thresholds closes at the stop.
func exitFor(t *Trade, price float64) (Status, float64, bool) {
	switch {
	case hitStopLoss(t, price):
		return ClosedByStop, t.Stop, true
	case hitTakeProfit(t, price):
		return ClosedByTarget, t.Target, true
	}
	return Open, 0, false
}
