package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	perf   *csv.Writer
	tf, pf *os.File
}

func NewCSV(tradesPath, perfPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(perfPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	pw := csv.NewWriter(pf)

	if err := tw.Write([]string{"trade_id", "asset", "direction", "leverage", "entry_price", "close_price", "margin", "notional", "pnl_percent", "pnl_amount", "reason", "opened_at", "closed_at"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"time", "cash", "equity", "realized_pnl", "open_positions", "performance_pct"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, pw, tf, pf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.trades.Write([]string{
		t.TradeID,
		t.Asset,
		t.Direction,
		strconv.Itoa(t.Leverage),
		f(t.EntryPrice),
		f(t.ClosePrice),
		f(t.Margin),
		f(t.Notional),
		f(t.PnlPercent),
		f(t.PnlAmount),
		t.Reason,
		t.OpenedAt.Format(time.RFC3339),
		t.ClosedAt.Format(time.RFC3339),
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordPerformance(s PerfSnapshot) error {
	err := j.perf.Write([]string{
		s.Time.Format(time.RFC3339),
		f(s.Cash),
		f(s.Equity),
		f(s.RealizedPnl),
		strconv.Itoa(s.OpenPositions),
		f(s.PerformancePct),
	})
	if err != nil {
		return err
	}

	j.perf.Flush()
	return j.perf.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.perf.Flush()
	if err := j.perf.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.pf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
