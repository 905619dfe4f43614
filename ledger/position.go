package ledger

import "time"

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Position is one open leveraged position. Every field is set at open time
// and never mutated; closing removes the position from the ledger and
// produces a derived trade record.
type Position struct {
	ID         string    `json:"id"`
	Asset      string    `json:"asset"`
	Direction  Direction `json:"direction"`
	Leverage   int       `json:"leverage"`
	EntryPrice float64   `json:"entryPrice"`

	// Margin is the cash reserved at open. NotionalSize = Margin × Leverage,
	// Quantity = NotionalSize / EntryPrice.
	Margin       float64 `json:"margin"`
	NotionalSize float64 `json:"notionalSize"`
	Quantity     float64 `json:"quantity"`

	// Signed percentages; the loss target is negative.
	TargetProfitPct float64 `json:"targetProfitPct"`
	TargetLossPct   float64 `json:"targetLossPct"`

	OpenedAt time.Time `json:"openedAt"`
}

// PnlPercent is the leveraged return of the position marked at the given
// price, in percent of margin.
func (p *Position) PnlPercent(mark float64) float64 {
	move := (mark - p.EntryPrice) / p.EntryPrice
	if p.Direction == Short {
		move = -move
	}
	return move * 100 * float64(p.Leverage)
}

// PnlAmount converts a pnl percentage into account currency against the
// position's notional exposure.
func (p *Position) PnlAmount(pnlPercent float64) float64 {
	return p.NotionalSize * pnlPercent / 100
}
