package market

import (
	"fmt"
	"math"
	"time"
)

// USD/JPY quote conventions. The whole engine is priced in JPY-quote pips:
// a pip is 0.01 in price terms, one standard lot is 100,000 units and one
// pip on one lot is worth 1,000 yen. These are fixed for result
// compatibility with the research datasets, not derived at runtime.
const (
	PipSize     = 0.01
	PipsPerUnit = 100.0 // price delta -> pips
	UnitsPerLot = 100_000
	YenPerPip   = 1000.0 // per 1.0 lot
)

// Bar is one OHLC candle. Volume is carried for completeness but the
// engine never reads it.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceToPips converts a price difference to pips.
func PriceToPips(delta float64) float64 { return delta * PipsPerUnit }

// PipsToPrice converts a pip distance to a price difference.
func PipsToPrice(pips float64) float64 { return pips * PipSize }

// InvalidBarError aborts a run: the engine surfaces malformed data rather
// than repairing it or producing partial results.
type InvalidBarError struct {
	Index  int
	Time   time.Time
	Reason string
}

func (e *InvalidBarError) Error() string {
	return fmt.Sprintf("invalid bar %d at %s: %s", e.Index, e.Time.Format(time.RFC3339), e.Reason)
}

// Validate checks a single bar for NaN/Inf prices and an inverted range.
// Monotonicity against the previous bar is checked with prev; pass a zero
// time for the first bar.
func (b Bar) Validate(idx int, prev time.Time) error {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidBarError{Index: idx, Time: b.Time, Reason: "non-finite OHLC"}
		}
	}
	if b.High < b.Low {
		return &InvalidBarError{Index: idx, Time: b.Time, Reason: "high below low"}
	}
	if b.Time.IsZero() {
		return &InvalidBarError{Index: idx, Time: b.Time, Reason: "zero timestamp"}
	}
	if !prev.IsZero() && !b.Time.After(prev) {
		return &InvalidBarError{Index: idx, Time: b.Time, Reason: "non-monotonic timestamp"}
	}
	return nil
}
