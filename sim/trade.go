package sim

import (
	"time"

	"github.com/rustyeddy/levtrader/ledger"
)

// CloseReason records why a position left the book.
type CloseReason string

const (
	ReasonTakeProfit CloseReason = "TAKE_PROFIT"
	ReasonStopLoss   CloseReason = "STOP_LOSS"
	ReasonTimeLimit  CloseReason = "TIME_LIMIT"
	ReasonManual     CloseReason = "MANUAL"
)

// Trade is the immutable record of a closed position.
type Trade struct {
	ID         string           `json:"id"`
	Asset      string           `json:"asset"`
	Direction  ledger.Direction `json:"direction"`
	Leverage   int              `json:"leverage"`
	EntryPrice float64          `json:"entryPrice"`

	Margin       float64 `json:"margin"`
	NotionalSize float64 `json:"notionalSize"`
	Quantity     float64 `json:"quantity"`

	TargetProfitPct float64 `json:"targetProfitPct"`
	TargetLossPct   float64 `json:"targetLossPct"`

	ClosePrice float64     `json:"closePrice"`
	PnlPercent float64     `json:"pnlPercent"`
	PnlAmount  float64     `json:"pnlAmount"`
	Reason     CloseReason `json:"closeReason"`

	OpenedAt time.Time `json:"openedAt"`
	ClosedAt time.Time `json:"closedAt"`
}

// tradeHistory keeps closed trades most-recent-first, evicting the oldest
// once capacity is exceeded.
type tradeHistory struct {
	capacity int
	trades   []Trade
}

func newTradeHistory(capacity int) *tradeHistory {
	return &tradeHistory{capacity: capacity}
}

func (h *tradeHistory) Prepend(t Trade) {
	h.trades = append([]Trade{t}, h.trades...)
	if len(h.trades) > h.capacity {
		h.trades = h.trades[:h.capacity]
	}
}

func (h *tradeHistory) All() []Trade {
	out := make([]Trade, len(h.trades))
	copy(out, h.trades)
	return out
}
