package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, asset, direction, leverage, entry_price, close_price, margin, notional, pnl_percent, pnl_amount, reason, opened_at, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Asset, t.Direction, t.Leverage, t.EntryPrice, t.ClosePrice,
		t.Margin, t.Notional, t.PnlPercent, t.PnlAmount, t.Reason, t.OpenedAt, t.ClosedAt,
	)
	return err
}

func (j *SQLiteJournal) RecordPerformance(s PerfSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO performance
		(time, cash, equity, realized_pnl, open_positions, performance_pct)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.Time, s.Cash, s.Equity, s.RealizedPnl, s.OpenPositions, s.PerformancePct,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
