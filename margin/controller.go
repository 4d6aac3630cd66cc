package margin

import (
	"errors"
	"fmt"
	"math"

	"fxbt/market"
)

// ErrInvalidLot is returned for lot sizes <= 0. It is fatal to the single
// open attempt, never to the run.
var ErrInvalidLot = errors.New("margin: lot size must be positive")

// Config is the static admission policy. CeilingPct caps total used
// margin as a fraction of initial capital, independent of leverage.
type Config struct {
	InitialBalance float64
	MarginRate     float64
	MaxPositions   int
	CeilingPct     float64
}

// DefaultCeilingPct caps committed margin at 80% of initial capital.
const DefaultCeilingPct = 0.80

// Snapshot is the ledger state a decision is made against. Controllers
// never mutate it; identical snapshots yield identical decisions.
type Snapshot struct {
	Balance       float64
	OpenPositions int
	UsedMargin    float64
}

// Violation codes reported on a denied admission.
const (
	CodeMaxPositions = "MAX_POSITIONS"
	CodeCeiling      = "MARGIN_CEILING"
	CodeAvailable    = "INSUFFICIENT_MARGIN"
)

// Decision reports whether a position may be opened and, when not, why.
type Decision struct {
	Allowed        bool
	Violations     []string
	RequiredMargin float64
}

func (d *Decision) deny(code string) {
	d.Allowed = false
	d.Violations = append(d.Violations, code)
}

type Controller struct {
	cfg Config
}

func NewController(cfg Config) *Controller {
	if cfg.CeilingPct <= 0 {
		cfg.CeilingPct = DefaultCeilingPct
	}
	return &Controller{cfg: cfg}
}

// RequiredMargin is the capital committed by a position of the given lot
// size at the given price: lot * 100,000 units * price * margin rate.
func (c *Controller) RequiredMargin(lot, price float64) (float64, error) {
	if lot <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLot, lot)
	}
	return lot * market.UnitsPerLot * price * c.cfg.MarginRate, nil
}

// ceiling is the absolute cap on total used margin.
func (c *Controller) ceiling() float64 {
	return c.cfg.InitialBalance * c.cfg.CeilingPct
}

// CanOpen decides admission for a new position. It is a pure function of
// the snapshot and the static config.
func (c *Controller) CanOpen(s Snapshot, lot, price float64) (Decision, error) {
	req, err := c.RequiredMargin(lot, price)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Allowed: true, RequiredMargin: req}

	if s.OpenPositions >= c.cfg.MaxPositions {
		d.deny(CodeMaxPositions)
	}
	if s.UsedMargin+req > c.ceiling() {
		d.deny(CodeCeiling)
	}
	if s.Balance-s.UsedMargin < req {
		d.deny(CodeAvailable)
	}
	return d, nil
}

// MaxLotSize is the largest lot admissible under the ceiling given the
// margin already in use, rounded down to 0.01. Returns 0 when the ceiling
// is exhausted.
func (c *Controller) MaxLotSize(s Snapshot, price float64) float64 {
	avail := c.ceiling() - s.UsedMargin
	if avail <= 0 {
		return 0
	}
	oneLot := market.UnitsPerLot * price * c.cfg.MarginRate
	if oneLot <= 0 {
		return 0
	}
	lots := avail / oneLot
	return math.Floor(lots*100) / 100
}

// MaxPositionsFor is the theoretical position capacity at the given lot
// size and price under the ceiling, capped by the configured maximum.
func (c *Controller) MaxPositionsFor(lot, price float64) (int, error) {
	per, err := c.RequiredMargin(lot, price)
	if err != nil {
		return 0, err
	}
	if per <= 0 {
		return 0, nil
	}
	n := int(c.ceiling() / per)
	if n > c.cfg.MaxPositions {
		n = c.cfg.MaxPositions
	}
	return n, nil
}
