// Package sim implements the position lifecycle and portfolio accounting
// engine: opening and closing simulated leveraged positions against the
// ledger, auto-close evaluation on every price tick, and the bounded trade,
// price and performance histories that roll up portfolio state.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/levtrader/journal"
	"github.com/rustyeddy/levtrader/ledger"
	"github.com/rustyeddy/levtrader/market"
	"github.com/rustyeddy/levtrader/pkg/id"
)

var (
	// ErrPositionNotFound signals a close for an id that is not in the open
	// set, usually because a concurrent evaluation already closed it. It is
	// a no-op, never a double credit.
	ErrPositionNotFound = errors.New("position not found")

	// ErrInvalidPrice rejects a zero or negative price before it can reach
	// P&L division.
	ErrInvalidPrice = errors.New("invalid price")
)

// Driver decides, once per tick, whether to open new positions. It runs
// outside the engine lock and talks back through the engine's public
// operations, so implementations stay swappable without touching the
// lifecycle code.
type Driver interface {
	OnTick(e *Engine, tick market.Tick, now time.Time)
}

// Config carries the engine's policy knobs. Zero values fall back to the
// defaults below.
type Config struct {
	InitialBalance float64
	MinimumMargin  float64 // margin floor; reservations at or below are dust

	PositionMaxAge time.Duration // age at which a position force-closes
	MaxLeverage    int           // 0 = uncapped

	TradeHistorySize int
	PriceHistorySize int
	PerfHistorySize  int

	Clock   func() time.Time
	Logger  *slog.Logger
	Journal journal.Journal
	Driver  Driver
}

const (
	defaultPositionMaxAge   = 24 * time.Hour
	defaultMinimumMargin    = 1.0
	defaultTradeHistorySize = 100
	defaultPriceHistorySize = 50
	defaultPerfHistorySize  = 50
)

// Engine owns the ledger and every bounded history. One mutex serializes
// all mutating operations; open, close and the full tick pass are each
// atomic with respect to each other.
type Engine struct {
	mu     sync.Mutex
	led    *ledger.Ledger
	prices *market.History
	latest market.Tick // last known price per asset
	trades *tradeHistory
	perf   *perfHistory

	driver  Driver
	journal journal.Journal
	log     *slog.Logger
	clock   func() time.Time

	maxAge      time.Duration
	maxLeverage int
}

func NewEngine(cfg Config) *Engine {
	if cfg.PositionMaxAge <= 0 {
		cfg.PositionMaxAge = defaultPositionMaxAge
	}
	if cfg.MinimumMargin <= 0 {
		cfg.MinimumMargin = defaultMinimumMargin
	}
	if cfg.TradeHistorySize <= 0 {
		cfg.TradeHistorySize = defaultTradeHistorySize
	}
	if cfg.PriceHistorySize <= 0 {
		cfg.PriceHistorySize = defaultPriceHistorySize
	}
	if cfg.PerfHistorySize <= 0 {
		cfg.PerfHistorySize = defaultPerfHistorySize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.Nop{}
	}

	return &Engine{
		led:         ledger.New(cfg.InitialBalance, cfg.MinimumMargin),
		prices:      market.NewHistory(cfg.PriceHistorySize),
		latest:      make(market.Tick),
		trades:      newTradeHistory(cfg.TradeHistorySize),
		perf:        newPerfHistory(cfg.PerfHistorySize),
		driver:      cfg.Driver,
		journal:     cfg.Journal,
		log:         cfg.Logger,
		clock:       cfg.Clock,
		maxAge:      cfg.PositionMaxAge,
		maxLeverage: cfg.MaxLeverage,
	}
}

// OpenRequest is the input to OpenPosition. TargetLossPct is a signed
// percentage; losses are negative.
type OpenRequest struct {
	Asset           string
	Direction       ledger.Direction
	Leverage        int
	EntryPrice      float64
	Margin          float64
	TargetProfitPct float64
	TargetLossPct   float64
}

func (r OpenRequest) validate(maxLeverage int) error {
	if r.Asset == "" {
		return fmt.Errorf("open: asset is required")
	}
	if r.Direction != ledger.Long && r.Direction != ledger.Short {
		return fmt.Errorf("open %s: direction must be LONG or SHORT, got %q", r.Asset, r.Direction)
	}
	if r.EntryPrice <= 0 {
		return fmt.Errorf("open %s: entry price %v: %w", r.Asset, r.EntryPrice, ErrInvalidPrice)
	}
	if r.Leverage < 1 {
		return fmt.Errorf("open %s: leverage must be at least 1, got %d", r.Asset, r.Leverage)
	}
	if maxLeverage > 0 && r.Leverage > maxLeverage {
		return fmt.Errorf("open %s: leverage %d exceeds cap %d", r.Asset, r.Leverage, maxLeverage)
	}
	if r.Margin <= 0 {
		return fmt.Errorf("open %s: margin must be positive, got %v", r.Asset, r.Margin)
	}
	return nil
}

// OpenPosition reserves margin and appends a new position to the ledger.
// ledger.ErrInsufficientFunds means the open was skipped, best-effort
// semantics; the ledger is untouched. Any other error is malformed input.
func (e *Engine) OpenPosition(req OpenRequest) (*ledger.Position, error) {
	if err := req.validate(e.maxLeverage); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.led.ReserveMargin(req.Margin); err != nil {
		e.log.Debug("open skipped",
			"asset", req.Asset, "margin", req.Margin, "cash", e.led.Cash())
		return nil, fmt.Errorf("open %s: %w", req.Asset, err)
	}

	notional := req.Margin * float64(req.Leverage)
	p := &ledger.Position{
		ID:              id.New(),
		Asset:           req.Asset,
		Direction:       req.Direction,
		Leverage:        req.Leverage,
		EntryPrice:      req.EntryPrice,
		Margin:          req.Margin,
		NotionalSize:    notional,
		Quantity:        notional / req.EntryPrice,
		TargetProfitPct: req.TargetProfitPct,
		TargetLossPct:   req.TargetLossPct,
		OpenedAt:        e.clock(),
	}
	e.led.Add(p)

	e.log.Info("position opened",
		"id", p.ID, "asset", p.Asset, "direction", p.Direction,
		"leverage", p.Leverage, "entry", p.EntryPrice, "margin", p.Margin)
	return p, nil
}

// ClosePosition closes an open position at the given price. An unknown id
// returns ErrPositionNotFound and leaves all state untouched.
func (e *Engine) ClosePosition(positionID string, closePrice float64) (Trade, error) {
	if closePrice <= 0 {
		return Trade{}, fmt.Errorf("close %s: close price %v: %w", positionID, closePrice, ErrInvalidPrice)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.led.Find(positionID)
	if p == nil {
		return Trade{}, fmt.Errorf("close %s: %w", positionID, ErrPositionNotFound)
	}
	return e.closeLocked(p, closePrice, ReasonManual, e.clock()), nil
}

// closeLocked performs the check-and-remove close under the engine lock:
// compute P&L, release margin, drop the position and record the trade.
func (e *Engine) closeLocked(p *ledger.Position, closePrice float64, reason CloseReason, now time.Time) Trade {
	pct := p.PnlPercent(closePrice)
	amount := p.PnlAmount(pct)

	e.led.Remove(p.ID)
	e.led.ReleaseMargin(p.Margin, amount)

	if e.led.Cash() < 0 {
		e.log.Warn("cash negative after close",
			"id", p.ID, "cash", e.led.Cash(), "pnl", amount)
	}

	t := Trade{
		ID:              p.ID,
		Asset:           p.Asset,
		Direction:       p.Direction,
		Leverage:        p.Leverage,
		EntryPrice:      p.EntryPrice,
		Margin:          p.Margin,
		NotionalSize:    p.NotionalSize,
		Quantity:        p.Quantity,
		TargetProfitPct: p.TargetProfitPct,
		TargetLossPct:   p.TargetLossPct,
		ClosePrice:      closePrice,
		PnlPercent:      pct,
		PnlAmount:       amount,
		Reason:          reason,
		OpenedAt:        p.OpenedAt,
		ClosedAt:        now,
	}
	e.trades.Prepend(t)

	if err := e.journal.RecordTrade(journal.TradeRecord{
		TradeID:    t.ID,
		Asset:      t.Asset,
		Direction:  string(t.Direction),
		Leverage:   t.Leverage,
		EntryPrice: t.EntryPrice,
		ClosePrice: t.ClosePrice,
		Margin:     t.Margin,
		Notional:   t.NotionalSize,
		PnlPercent: t.PnlPercent,
		PnlAmount:  t.PnlAmount,
		Reason:     string(t.Reason),
		OpenedAt:   t.OpenedAt,
		ClosedAt:   t.ClosedAt,
	}); err != nil {
		e.log.Error("journal trade", "id", t.ID, "err", err)
	}

	e.log.Info("position closed",
		"id", t.ID, "asset", t.Asset, "reason", t.Reason,
		"pnlPct", t.PnlPercent, "pnlAmount", t.PnlAmount)
	return t
}

// ApplyTick runs one full evaluation pass for a batch of prices: record
// price history, let the strategy driver act, auto-close every open
// position whose trigger fires, then append a performance sample. Assets
// with non-positive prices are dropped from the tick; positions without a
// price in the tick are left untouched.
func (e *Engine) ApplyTick(tick market.Tick) Snapshot {
	now := e.clock()

	valid, rejected := tick.Valid()
	for _, asset := range rejected {
		e.log.Warn("tick rejected", "asset", asset, "price", tick[asset])
	}

	e.mu.Lock()
	for asset, price := range valid {
		e.prices.Record(asset, price, now)
		e.latest[asset] = price
	}
	e.mu.Unlock()

	// The driver opens through the public operations and takes the lock
	// per call; it must not run inside the evaluation critical section.
	if e.driver != nil {
		e.driver.OnTick(e, valid, now)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.led.Positions() {
		mark, ok := valid[p.Asset]
		if !ok {
			continue
		}
		if reason, hit := autoCloseReason(p, mark, now, e.maxAge); hit {
			e.closeLocked(p, mark, reason, now)
		}
	}

	total := e.led.Cash() + e.led.MarkToMarket(e.latest)
	sample := e.perf.Record(total, e.led.InitialBalance(), now)

	if err := e.journal.RecordPerformance(journal.PerfSnapshot{
		Time:           now,
		Cash:           e.led.Cash(),
		Equity:         total,
		RealizedPnl:    e.led.RealizedPnl(),
		OpenPositions:  e.led.OpenCount(),
		PerformancePct: sample.Pct,
	}); err != nil {
		e.log.Error("journal performance", "err", err)
	}

	return e.snapshotLocked()
}

// Cash returns the current free cash. Used by strategy drivers to size
// margin.
func (e *Engine) Cash() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.led.Cash()
}

// OpenCount returns the number of open positions.
func (e *Engine) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.led.OpenCount()
}

// GetState returns a read-only snapshot of the portfolio and every history.
func (e *Engine) GetState() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Portfolio: PortfolioState{
			Cash:           e.led.Cash(),
			InitialBalance: e.led.InitialBalance(),
			RealizedPnl:    e.led.RealizedPnl(),
			Positions:      e.led.Positions(),
		},
		Equity:       e.led.Cash() + e.led.MarkToMarket(e.latest),
		Trades:       e.trades.All(),
		PriceHistory: e.prices.Snapshot(),
		Performance:  e.perf.All(),
	}
}

// PortfolioState is the ledger portion of a snapshot.
type PortfolioState struct {
	Cash           float64            `json:"cash"`
	InitialBalance float64            `json:"initialBalance"`
	RealizedPnl    float64            `json:"realizedPnl"`
	Positions      []*ledger.Position `json:"positions"`
}

// Snapshot is the full engine state handed to the transport layer.
type Snapshot struct {
	Portfolio    PortfolioState                 `json:"portfolio"`
	Equity       float64                        `json:"equity"`
	Trades       []Trade                        `json:"trades"`
	PriceHistory map[string][]market.PricePoint `json:"priceHistory"`
	Performance  []PerfSample                   `json:"performanceHistory"`
}
