// Package ledger owns the simulated portfolio: cash, realized P&L and the
// set of open leveraged positions. It is a plain state container; the sim
// engine serializes all mutations under its own lock.
package ledger

import (
	"errors"

	"github.com/rustyeddy/levtrader/market"
)

// ErrInsufficientFunds is returned when a margin reservation exceeds the
// available cash or falls below the configured minimum.
var ErrInsufficientFunds = errors.New("insufficient funds")

type Ledger struct {
	cash           float64
	initialBalance float64
	realizedPnl    float64
	minMargin      float64

	// insertion order = open order
	positions []*Position
}

// New creates a ledger funded with initialBalance. minMargin is the floor
// below which a margin reservation is rejected as dust; it must be positive.
func New(initialBalance, minMargin float64) *Ledger {
	return &Ledger{
		cash:           initialBalance,
		initialBalance: initialBalance,
		minMargin:      minMargin,
	}
}

func (l *Ledger) Cash() float64           { return l.cash }
func (l *Ledger) InitialBalance() float64 { return l.initialBalance }
func (l *Ledger) RealizedPnl() float64    { return l.realizedPnl }
func (l *Ledger) OpenCount() int          { return len(l.positions) }

// Positions returns a copy of the open set in insertion order. The Position
// values are shared; they are immutable after open.
func (l *Ledger) Positions() []*Position {
	out := make([]*Position, len(l.positions))
	copy(out, l.positions)
	return out
}

// ReserveMargin debits cash for a new position. It fails if amount exceeds
// the available cash or does not clear the minimum-margin floor; on failure
// the ledger is untouched.
func (l *Ledger) ReserveMargin(amount float64) error {
	if amount <= l.minMargin || amount > l.cash {
		return ErrInsufficientFunds
	}
	l.cash -= amount
	return nil
}

// ReleaseMargin returns a position's margin plus its realized pnl to cash
// and folds the pnl into the realized total. It never fails: a loss deeper
// than the margin legitimately drives cash negative, which the caller
// reports as telemetry rather than blocking the close.
func (l *Ledger) ReleaseMargin(amount, pnl float64) {
	l.cash += amount + pnl
	l.realizedPnl += pnl
}

// Add appends a freshly opened position. The caller has already reserved
// its margin.
func (l *Ledger) Add(p *Position) {
	l.positions = append(l.positions, p)
}

// Remove takes the position with the given id out of the open set. The
// second return is false when the id is not present.
func (l *Ledger) Remove(id string) (*Position, bool) {
	for i, p := range l.positions {
		if p.ID == id {
			l.positions = append(l.positions[:i], l.positions[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// Find returns the open position with the given id, or nil.
func (l *Ledger) Find(id string) *Position {
	for _, p := range l.positions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// MarkToMarket returns the total unrealized P&L of the open set at the given
// prices. Positions whose asset is absent from prices contribute zero; a
// missing quote skips the position, it never liquidates it.
func (l *Ledger) MarkToMarket(prices market.Tick) float64 {
	var total float64
	for _, p := range l.positions {
		mark, ok := prices[p.Asset]
		if !ok {
			continue
		}
		total += p.PnlAmount(p.PnlPercent(mark))
	}
	return total
}
