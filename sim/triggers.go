package sim

import (
	"time"

	"github.com/rustyeddy/levtrader/ledger"
)

// autoCloseReason decides whether a position must close at the given mark.
// Reason priority is fixed: TIME_LIMIT beats TAKE_PROFIT beats STOP_LOSS,
// so a position past both its profit target and the age limit is recorded
// as a time-limit close.
func autoCloseReason(p *ledger.Position, mark float64, now time.Time, maxAge time.Duration) (CloseReason, bool) {
	if now.Sub(p.OpenedAt) >= maxAge {
		return ReasonTimeLimit, true
	}

	pct := p.PnlPercent(mark)
	if pct >= p.TargetProfitPct {
		return ReasonTakeProfit, true
	}
	if pct <= p.TargetLossPct {
		return ReasonStopLoss, true
	}
	return "", false
}
