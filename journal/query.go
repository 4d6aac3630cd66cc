package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade row for the journal's run by position id.
func (j *SQLiteJournal) GetTrade(positionID int) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT position_id, strategy, order_type, entry_time, entry_price,
		       exit_time, exit_price, lot_size, pnl_pips, pnl_amount, exit_reason
		FROM trades
		WHERE run_id = ? AND position_id = ?`, j.runID, positionID)

	rec, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %d not found", positionID)
	}
	return rec, err
}

// ListTradesClosedBetween returns trades whose exit_time is within
// [start, end), oldest first.
func (j *SQLiteJournal) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, strategy, order_type, entry_time, entry_price,
		       exit_time, exit_price, lot_size, pnl_pips, pnl_amount, exit_reason
		FROM trades
		WHERE run_id = ? AND exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, j.runID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListEquityBetween returns equity rows within [start, end), oldest first.
func (j *SQLiteJournal) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, balance, equity, open_positions
		FROM equity
		WHERE run_id = ? AND time >= ? AND time < ?
		ORDER BY time ASC`, j.runID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Time, &e.Balance, &e.Equity, &e.OpenPositions); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.PositionID,
		&rec.Strategy,
		&rec.OrderType,
		&rec.EntryTime,
		&rec.EntryPrice,
		&rec.ExitTime,
		&rec.ExitPrice,
		&rec.LotSize,
		&rec.PnLPips,
		&rec.PnLAmount,
		&rec.ExitReason,
	)
	return rec, err
}
