package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	asset TEXT NOT NULL,
	direction TEXT NOT NULL,
	leverage INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	close_price REAL NOT NULL,
	margin REAL NOT NULL,
	notional REAL NOT NULL,
	pnl_percent REAL NOT NULL,
	pnl_amount REAL NOT NULL,
	reason TEXT NOT NULL,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS performance (
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	equity REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	open_positions INTEGER NOT NULL,
	performance_pct REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_performance_time ON performance(time);
`
