package journal

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrade() TradeRecord {
	opened := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return TradeRecord{
		TradeID:    "01HV3XJ3Q0",
		Asset:      "BTCUSDT",
		Direction:  "LONG",
		Leverage:   5,
		EntryPrice: 100,
		ClosePrice: 110,
		Margin:     500,
		Notional:   2500,
		PnlPercent: 50,
		PnlAmount:  1250,
		Reason:     "TAKE_PROFIT",
		OpenedAt:   opened,
		ClosedAt:   opened.Add(time.Hour),
	}
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	perfPath := filepath.Join(dir, "perf.csv")

	j, err := NewCSV(tradesPath, perfPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(sampleTrade()))
	require.NoError(t, j.RecordPerformance(PerfSnapshot{
		Time: time.Now(), Cash: 11250, Equity: 11250, RealizedPnl: 1250,
		OpenPositions: 0, PerformancePct: 12.5,
	}))
	require.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	require.NoError(t, err)
	defer tf.Close()

	rows, err := csv.NewReader(tf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one trade
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "01HV3XJ3Q0", rows[1][0])
	assert.Equal(t, "TAKE_PROFIT", rows[1][10])

	pf, err := os.Open(perfPath)
	require.NoError(t, err)
	defer pf.Close()

	rows, err = csv.NewReader(pf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestSQLiteJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(sampleTrade()))
	require.NoError(t, j.RecordPerformance(PerfSnapshot{
		Time: time.Now(), Cash: 11250, Equity: 11250, RealizedPnl: 1250,
		OpenPositions: 0, PerformancePct: 12.5,
	}))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&n))
	assert.Equal(t, 1, n)

	var reason string
	var pnl float64
	require.NoError(t, db.QueryRow(
		"SELECT reason, pnl_amount FROM trades WHERE trade_id = ?", "01HV3XJ3Q0",
	).Scan(&reason, &pnl))
	assert.Equal(t, "TAKE_PROFIT", reason)
	assert.Equal(t, 1250.0, pnl)

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM performance").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordPerformance(PerfSnapshot{}))
	assert.NoError(t, j.Close())
}
