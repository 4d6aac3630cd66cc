package journal

import (
	"time"

	"fxbt/ledger"
)

// TradeRecord is one closed position, in the trade-log column order used
// for CSV export. Rows are never mutated after creation.
type TradeRecord struct {
	PositionID int       `json:"position_id"`
	Strategy   string    `json:"strategy"`
	OrderType  string    `json:"order_type"`
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitTime   time.Time `json:"exit_time"`
	ExitPrice  float64   `json:"exit_price"`
	LotSize    float64   `json:"lot_size"`
	PnLPips    float64   `json:"pnl_pips"`
	PnLAmount  float64   `json:"pnl_amount"`
	ExitReason string    `json:"exit_reason"`
}

// EquitySnapshot is one equity-curve row, appended once per bar.
type EquitySnapshot struct {
	Time          time.Time `json:"time"`
	Balance       float64   `json:"balance"`
	Equity        float64   `json:"equity"`
	OpenPositions int       `json:"open_positions"`
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// FromPosition converts a closed position into its trade-log row.
func FromPosition(p *ledger.Position) TradeRecord {
	return TradeRecord{
		PositionID: p.ID,
		Strategy:   p.Strategy,
		OrderType:  p.Direction.String(),
		EntryTime:  p.EntryTime,
		EntryPrice: p.EntryPrice,
		ExitTime:   p.ExitTime,
		ExitPrice:  p.ExitPrice,
		LotSize:    p.LotSize,
		PnLPips:    p.PnLPips,
		PnLAmount:  p.PnLAmount,
		ExitReason: string(p.ExitReason),
	}
}

// Discard swallows all records. Used when a run needs no persistence.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error     { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) Close() error                      { return nil }
