package ledger

import (
	"time"

	"fxbt/market"
)

// Status is the position lifecycle state. The only legal transition is
// Open to exactly one terminal state.
type Status int

const (
	StatusOpen Status = iota
	StatusClosedTakeProfit
	StatusClosedStopLoss
	StatusClosedBySignal
	StatusClosedManual
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosedTakeProfit:
		return "closed_take_profit"
	case StatusClosedStopLoss:
		return "closed_stop_loss"
	case StatusClosedBySignal:
		return "closed_by_signal"
	case StatusClosedManual:
		return "closed_manual"
	}
	return "unknown"
}

// ExitReason names why a position was closed.
type ExitReason string

const (
	ExitTakeProfit ExitReason = "take_profit"
	ExitStopLoss   ExitReason = "stop_loss"
	ExitSignal     ExitReason = "signal"
	ExitManual     ExitReason = "manual"
)

func (r ExitReason) status() Status {
	switch r {
	case ExitTakeProfit:
		return StatusClosedTakeProfit
	case ExitStopLoss:
		return StatusClosedStopLoss
	case ExitSignal:
		return StatusClosedBySignal
	}
	return StatusClosedManual
}

// Position is one trade's full lifecycle record. Entry fields are fixed at
// open; exit fields are written exactly once by Ledger.Close.
type Position struct {
	ID         int
	Symbol     string
	Direction  market.Direction
	EntryPrice float64
	LotSize    float64
	EntryTime  time.Time
	StopLoss   float64
	TakeProfit float64
	Strategy   string
	Commission float64

	Status     Status
	ExitPrice  float64
	ExitTime   time.Time
	ExitReason ExitReason
	PnLPips    float64
	PnLAmount  float64
}

func (p *Position) IsOpen() bool { return p.Status == StatusOpen }

// UnrealizedPnL marks the position against a price without mutating state.
// Same pip formula as close: direction * price delta * 100, then the fixed
// 1,000 yen per pip per lot.
func (p *Position) UnrealizedPnL(price float64) float64 {
	pips := float64(p.Direction) * market.PriceToPips(price-p.EntryPrice)
	return pips * p.LotSize * market.YenPerPip
}

// EvaluateExit checks the bar's High/Low against the position's levels.
// Take-profit is checked before stop-loss: when both levels are crossed
// within one bar the position closes at the target. This is a documented
// policy (optimistic relative to tick-level fills), not an accident of
// ordering.
func (p *Position) EvaluateExit(high, low float64) (price float64, reason ExitReason, hit bool) {
	if !p.IsOpen() {
		return 0, "", false
	}
	if p.Direction == market.Buy {
		if high >= p.TakeProfit {
			return p.TakeProfit, ExitTakeProfit, true
		}
		if low <= p.StopLoss {
			return p.StopLoss, ExitStopLoss, true
		}
		return 0, "", false
	}
	if low <= p.TakeProfit {
		return p.TakeProfit, ExitTakeProfit, true
	}
	if high >= p.StopLoss {
		return p.StopLoss, ExitStopLoss, true
	}
	return 0, "", false
}
