// Package journal writes closed trades and per-tick performance snapshots
// to CSV or SQLite. It is write-only telemetry; nothing is read back on
// startup and the engine starts fresh on every run.
package journal

import "time"

type TradeRecord struct {
	TradeID    string
	Asset      string
	Direction  string
	Leverage   int
	EntryPrice float64
	ClosePrice float64
	Margin     float64
	Notional   float64
	PnlPercent float64
	PnlAmount  float64
	Reason     string
	OpenedAt   time.Time
	ClosedAt   time.Time
}

type PerfSnapshot struct {
	Time           time.Time
	Cash           float64
	Equity         float64
	RealizedPnl    float64
	OpenPositions  int
	PerformancePct float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordPerformance(PerfSnapshot) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error        { return nil }
func (Nop) RecordPerformance(PerfSnapshot) error { return nil }
func (Nop) Close() error                         { return nil }
