// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	position_id INTEGER NOT NULL,
	run_id TEXT NOT NULL DEFAULT '',
	strategy TEXT NOT NULL,
	order_type TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_time DATETIME NOT NULL,
	exit_price REAL NOT NULL,
	lot_size REAL NOT NULL,
	pnl_pips REAL NOT NULL,
	pnl_amount REAL NOT NULL,
	exit_reason TEXT NOT NULL,
	PRIMARY KEY (run_id, position_id)
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL DEFAULT '',
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL,
	open_positions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
