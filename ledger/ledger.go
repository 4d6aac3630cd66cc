package ledger

import (
	"fmt"
	"time"

	"fxbt/market"
)

// Config fixes the cost model for one ledger's lifetime.
type Config struct {
	Symbol           string
	InitialBalance   float64
	SpreadPips       float64
	CommissionPerLot float64
}

// OpenRequest describes a position to be opened at a bar's raw price.
// StopPrice/TargetPrice, when set, override the pip distances.
type OpenRequest struct {
	Direction   market.Direction
	RawPrice    float64
	LotSize     float64
	StopPips    float64
	TargetPips  float64
	StopPrice   float64
	TargetPrice float64
	Time        time.Time
	Strategy    string
}

// Streaks is the consecutive win/loss snapshot, updated at close time.
type Streaks struct {
	Wins      int
	Losses    int
	MaxWins   int
	MaxLosses int
}

// Ledger owns the open position set and the append-only closed history for
// one backtest run. Balance changes only at open (commission) and close
// (realized P&L); equity is always recomputed, never stored.
type Ledger struct {
	cfg Config

	balance         float64
	peakBalance     float64
	totalCommission float64

	open   map[int]*Position
	order  []int // open-set iteration order, oldest first
	closed []*Position
	nextID int

	streaks Streaks
}

func New(cfg Config) *Ledger {
	return &Ledger{
		cfg:         cfg,
		balance:     cfg.InitialBalance,
		peakBalance: cfg.InitialBalance,
		open:        make(map[int]*Position),
		nextID:      1,
	}
}

func (l *Ledger) Balance() float64         { return l.balance }
func (l *Ledger) InitialBalance() float64  { return l.cfg.InitialBalance }
func (l *Ledger) PeakBalance() float64     { return l.peakBalance }
func (l *Ledger) TotalCommission() float64 { return l.totalCommission }
func (l *Ledger) OpenCount() int           { return len(l.open) }
func (l *Ledger) Closed() []*Position      { return l.closed }
func (l *Ledger) Streaks() Streaks         { return l.streaks }

// Drawdown is the current peak-to-balance decline as a fraction of peak.
func (l *Ledger) Drawdown() float64 {
	if l.peakBalance <= 0 {
		return 0
	}
	return (l.peakBalance - l.balance) / l.peakBalance
}

// OpenPositions returns the open set oldest-first. The slice is freshly
// allocated; callers may close positions while ranging over it.
func (l *Ledger) OpenPositions() []*Position {
	out := make([]*Position, 0, len(l.order))
	for _, id := range l.order {
		if p, ok := l.open[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Open admits a new position. The half-spread is applied to the raw price
// (buys lift the ask, sells hit the bid), stop and target land on the
// direction-correct side, and the commission is deducted immediately.
// Wrong-side levels reject the request before any state changes.
func (l *Ledger) Open(req OpenRequest) (*Position, error) {
	if req.Direction != market.Buy && req.Direction != market.Sell {
		return nil, &market.InvalidSignalError{Time: req.Time, Reason: "direction must be buy or sell"}
	}
	if req.LotSize <= 0 {
		return nil, &market.InvalidSignalError{Time: req.Time, Reason: "non-positive lot size"}
	}

	dir := float64(req.Direction)
	halfSpread := market.PipsToPrice(l.cfg.SpreadPips) / 2
	entry := req.RawPrice + dir*halfSpread

	stop := req.StopPrice
	if stop <= 0 {
		stop = entry - dir*market.PipsToPrice(req.StopPips)
	}
	target := req.TargetPrice
	if target <= 0 {
		target = entry + dir*market.PipsToPrice(req.TargetPips)
	}

	// Buy: stop < entry < target. Sell: target < entry < stop.
	if dir*(entry-stop) <= 0 {
		return nil, &market.InvalidSignalError{Time: req.Time,
			Reason: fmt.Sprintf("stop %.3f on wrong side of entry %.3f", stop, entry)}
	}
	if dir*(target-entry) <= 0 {
		return nil, &market.InvalidSignalError{Time: req.Time,
			Reason: fmt.Sprintf("target %.3f on wrong side of entry %.3f", target, entry)}
	}

	p := &Position{
		ID:         l.nextID,
		Symbol:     l.cfg.Symbol,
		Direction:  req.Direction,
		EntryPrice: entry,
		LotSize:    req.LotSize,
		EntryTime:  req.Time,
		StopLoss:   stop,
		TakeProfit: target,
		Strategy:   req.Strategy,
		Commission: l.cfg.CommissionPerLot * req.LotSize,
		Status:     StatusOpen,
	}
	l.nextID++

	l.balance -= p.Commission
	l.totalCommission += p.Commission

	l.open[p.ID] = p
	l.order = append(l.order, p.ID)
	return p, nil
}

// Close realizes a position at the given price and moves it to history.
// P&L lands on the balance, then peak balance and streak counters update.
func (l *Ledger) Close(p *Position, exitPrice float64, exitTime time.Time, reason ExitReason) error {
	if !p.IsOpen() {
		return fmt.Errorf("ledger: position %d already closed", p.ID)
	}
	if _, ok := l.open[p.ID]; !ok {
		return fmt.Errorf("ledger: position %d not in open set", p.ID)
	}

	p.ExitPrice = exitPrice
	p.ExitTime = exitTime
	p.ExitReason = reason
	p.Status = reason.status()
	p.PnLPips = float64(p.Direction) * market.PriceToPips(exitPrice-p.EntryPrice)
	p.PnLAmount = p.PnLPips * p.LotSize * market.YenPerPip

	l.balance += p.PnLAmount
	if l.balance > l.peakBalance {
		l.peakBalance = l.balance
	}

	if p.PnLAmount > 0 {
		l.streaks.Wins++
		l.streaks.Losses = 0
		if l.streaks.Wins > l.streaks.MaxWins {
			l.streaks.MaxWins = l.streaks.Wins
		}
	} else {
		l.streaks.Losses++
		l.streaks.Wins = 0
		if l.streaks.Losses > l.streaks.MaxLosses {
			l.streaks.MaxLosses = l.streaks.Losses
		}
	}

	delete(l.open, p.ID)
	l.closed = append(l.closed, p)
	return nil
}

// UnrealizedPnL sums the open set's mark-to-market P&L at a price.
func (l *Ledger) UnrealizedPnL(price float64) float64 {
	var total float64
	for _, id := range l.order {
		if p, ok := l.open[id]; ok {
			total += p.UnrealizedPnL(price)
		}
	}
	return total
}

// Equity is balance plus unrealized P&L at the given price.
func (l *Ledger) Equity(price float64) float64 {
	return l.balance + l.UnrealizedPnL(price)
}
