package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal persists trades and equity rows to a SQLite database.
// RunID, when set, tags every row so multiple runs can share one file.
type SQLiteJournal struct {
	db    *sql.DB
	runID string
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

// SetRunID tags subsequent records with a run identifier.
func (j *SQLiteJournal) SetRunID(id string) { j.runID = id }

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(position_id, run_id, strategy, order_type, entry_time, entry_price,
		 exit_time, exit_price, lot_size, pnl_pips, pnl_amount, exit_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PositionID, j.runID, t.Strategy, t.OrderType, t.EntryTime, t.EntryPrice,
		t.ExitTime, t.ExitPrice, t.LotSize, t.PnLPips, t.PnLAmount, t.ExitReason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, balance, equity, open_positions)
		VALUES (?, ?, ?, ?, ?)`,
		j.runID, e.Time, e.Balance, e.Equity, e.OpenPositions,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
