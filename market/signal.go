package market

import (
	"fmt"
	"time"
)

// Direction of a trade signal: +1 buy, -1 sell, 0 none.
type Direction int

const (
	None Direction = 0
	Buy  Direction = 1
	Sell Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "NONE"
}

// Signal is a discrete trade instruction aligned to a bar timestamp by the
// caller. Stop and target may be given as pip distances or as absolute
// prices; an absolute price wins when both are set. LotSize 0 means the
// engine's default sizing applies.
type Signal struct {
	Time        time.Time
	Direction   Direction
	StopPips    float64
	TargetPips  float64
	StopPrice   float64
	TargetPrice float64
	LotSize     float64
	Strategy    string
}

// InvalidSignalError drops the offending signal; the run continues.
type InvalidSignalError struct {
	Time   time.Time
	Reason string
}

func (e *InvalidSignalError) Error() string {
	return fmt.Sprintf("invalid signal at %s: %s", e.Time.Format(time.RFC3339), e.Reason)
}

// Validate rejects directions outside {-1, 0, 1} and non-positive exit
// distances. Wrong-side stop/target checks need the entry price and happen
// at open time.
func (s Signal) Validate() error {
	switch s.Direction {
	case None, Buy, Sell:
	default:
		return &InvalidSignalError{Time: s.Time, Reason: fmt.Sprintf("direction %d outside {-1,0,1}", s.Direction)}
	}
	if s.Direction == None {
		return nil
	}
	if s.StopPips <= 0 && s.StopPrice <= 0 {
		return &InvalidSignalError{Time: s.Time, Reason: "no stop loss"}
	}
	if s.TargetPips <= 0 && s.TargetPrice <= 0 {
		return &InvalidSignalError{Time: s.Time, Reason: "no take profit"}
	}
	if s.LotSize < 0 {
		return &InvalidSignalError{Time: s.Time, Reason: "negative lot size"}
	}
	return nil
}
