package sim

import (
	"errors"
	"time"

	"fxbt/journal"
	"fxbt/ledger"
	"fxbt/margin"
	"fxbt/market"
)

// Config holds everything one run needs. A Simulator owns its ledger and
// margin controller exclusively; nothing is shared between runs.
type Config struct {
	Symbol           string
	InitialBalance   float64
	SpreadPips       float64
	CommissionPerLot float64
	MarginRate       float64
	MaxPositions     int
	MarginCeilingPct float64 // 0 means the default 80% cap

	// DefaultLotSize sizes signals that carry no lot. 0 falls back to the
	// largest admissible lot under the margin ceiling.
	DefaultLotSize float64

	// CloseAtEnd closes surviving positions at the last bar's close with a
	// manual exit reason.
	CloseAtEnd bool

	// CloseOnOpposite closes open positions against an incoming opposite
	// signal before the new entry is considered.
	CloseOnOpposite bool
}

// Result is the complete output of one run.
type Result struct {
	TradeLog    []journal.TradeRecord    `json:"trade_log"`
	EquityCurve []journal.EquitySnapshot `json:"equity_curve"`
	Closed      []*ledger.Position       `json:"-"`

	InitialBalance  float64        `json:"initial_balance"`
	FinalBalance    float64        `json:"final_balance"`
	PeakBalance     float64        `json:"peak_balance"`
	TotalCommission float64        `json:"total_commission"`
	Streaks         ledger.Streaks `json:"streaks"`

	// Rejection observability: dropped invalid signals and admission
	// refusals are counted, never silently swallowed.
	RejectedSignals  int `json:"rejected_signals"`
	MarginRejections int `json:"margin_rejections"`
	LimitHits        int `json:"limit_hits"`

	BarsProcessed int       `json:"bars_processed"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// PositionClosedListener is notified after a position has been closed and
// recorded. Statistics subscribers hang off this instead of the engine
// reaching back into strategy objects.
type PositionClosedListener interface {
	OnPositionClosed(p *ledger.Position)
}

// Simulator drives the bar-by-bar state machine: exits, then entries, then
// mark-to-market. Strictly sequential within a run.
type Simulator struct {
	cfg      Config
	ctrl     *margin.Controller
	led      *ledger.Ledger
	jrnl     journal.Journal
	listener PositionClosedListener
}

func New(cfg Config, j journal.Journal) *Simulator {
	if j == nil {
		j = journal.Discard{}
	}
	return &Simulator{
		cfg: cfg,
		ctrl: margin.NewController(margin.Config{
			InitialBalance: cfg.InitialBalance,
			MarginRate:     cfg.MarginRate,
			MaxPositions:   cfg.MaxPositions,
			CeilingPct:     cfg.MarginCeilingPct,
		}),
		led: ledger.New(ledger.Config{
			Symbol:           cfg.Symbol,
			InitialBalance:   cfg.InitialBalance,
			SpreadPips:       cfg.SpreadPips,
			CommissionPerLot: cfg.CommissionPerLot,
		}),
		jrnl: j,
	}
}

func (s *Simulator) SetPositionClosedListener(l PositionClosedListener) {
	s.listener = l
}

// Run folds the bar sequence into a Result. Signals must be pre-aligned to
// bar timestamps; unmatched signals never fire. A malformed bar aborts the
// whole run with InvalidBarError.
func (s *Simulator) Run(bars []market.Bar, signals []market.Signal) (*Result, error) {
	res := &Result{InitialBalance: s.cfg.InitialBalance}

	byTime := make(map[int64][]market.Signal, len(signals))
	for _, sig := range signals {
		k := sig.Time.UnixNano()
		byTime[k] = append(byTime[k], sig)
	}

	var prev time.Time
	for i, bar := range bars {
		if err := bar.Validate(i, prev); err != nil {
			return nil, err
		}
		prev = bar.Time

		if err := s.processExits(bar, res); err != nil {
			return nil, err
		}
		if err := s.processEntries(bar, byTime[bar.Time.UnixNano()], res); err != nil {
			return nil, err
		}
		if err := s.markToMarket(bar, res); err != nil {
			return nil, err
		}

		if res.Start.IsZero() {
			res.Start = bar.Time
		}
		res.End = bar.Time
		res.BarsProcessed++
	}

	if s.cfg.CloseAtEnd && len(bars) > 0 {
		last := bars[len(bars)-1]
		for _, p := range s.led.OpenPositions() {
			if err := s.closePosition(p, last.Close, last.Time, ledger.ExitManual, res); err != nil {
				return nil, err
			}
		}
	}

	res.Closed = s.led.Closed()
	res.FinalBalance = s.led.Balance()
	res.PeakBalance = s.led.PeakBalance()
	res.TotalCommission = s.led.TotalCommission()
	res.Streaks = s.led.Streaks()
	return res, nil
}

// processExits walks the open set oldest-first and applies the intrabar
// High/Low checks, take-profit before stop-loss.
func (s *Simulator) processExits(bar market.Bar, res *Result) error {
	for _, p := range s.led.OpenPositions() {
		price, reason, hit := p.EvaluateExit(bar.High, bar.Low)
		if !hit {
			continue
		}
		if err := s.closePosition(p, price, bar.Time, reason, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) processEntries(bar market.Bar, sigs []market.Signal, res *Result) error {
	for _, sig := range sigs {
		if err := sig.Validate(); err != nil {
			var ise *market.InvalidSignalError
			if errors.As(err, &ise) {
				res.RejectedSignals++
				continue
			}
			return err
		}
		if sig.Direction == market.None {
			continue
		}

		if s.cfg.CloseOnOpposite {
			for _, p := range s.led.OpenPositions() {
				if p.Direction == -sig.Direction {
					if err := s.closePosition(p, bar.Close, bar.Time, ledger.ExitSignal, res); err != nil {
						return err
					}
				}
			}
		}

		lot := sig.LotSize
		if lot == 0 {
			lot = s.cfg.DefaultLotSize
		}
		snap := s.snapshot(bar.Close)
		if lot == 0 {
			lot = s.ctrl.MaxLotSize(snap, bar.Close)
			if lot == 0 {
				res.MarginRejections++
				continue
			}
		}

		decision, err := s.ctrl.CanOpen(snap, lot, bar.Close)
		if err != nil {
			// Invalid lot kills this attempt only.
			if errors.Is(err, margin.ErrInvalidLot) {
				res.RejectedSignals++
				continue
			}
			return err
		}
		if !decision.Allowed {
			res.MarginRejections++
			for _, code := range decision.Violations {
				if code == margin.CodeMaxPositions {
					res.LimitHits++
					break
				}
			}
			continue
		}

		_, err = s.led.Open(ledger.OpenRequest{
			Direction:   sig.Direction,
			RawPrice:    bar.Close,
			LotSize:     lot,
			StopPips:    sig.StopPips,
			TargetPips:  sig.TargetPips,
			StopPrice:   sig.StopPrice,
			TargetPrice: sig.TargetPrice,
			Time:        bar.Time,
			Strategy:    sig.Strategy,
		})
		if err != nil {
			var ise *market.InvalidSignalError
			if errors.As(err, &ise) {
				res.RejectedSignals++
				continue
			}
			return err
		}
	}
	return nil
}

// markToMarket appends exactly one equity row per processed bar.
func (s *Simulator) markToMarket(bar market.Bar, res *Result) error {
	snap := journal.EquitySnapshot{
		Time:          bar.Time,
		Balance:       s.led.Balance(),
		Equity:        s.led.Equity(bar.Close),
		OpenPositions: s.led.OpenCount(),
	}
	res.EquityCurve = append(res.EquityCurve, snap)
	return s.jrnl.RecordEquity(snap)
}

func (s *Simulator) closePosition(p *ledger.Position, price float64, t time.Time, reason ledger.ExitReason, res *Result) error {
	if err := s.led.Close(p, price, t, reason); err != nil {
		return err
	}
	rec := journal.FromPosition(p)
	res.TradeLog = append(res.TradeLog, rec)
	if err := s.jrnl.RecordTrade(rec); err != nil {
		return err
	}
	if s.listener != nil {
		s.listener.OnPositionClosed(p)
	}
	return nil
}

// snapshot values used margin at the current price for every open lot,
// matching the admission policy's view of committed capital.
func (s *Simulator) snapshot(price float64) margin.Snapshot {
	var used float64
	for _, p := range s.led.OpenPositions() {
		req, err := s.ctrl.RequiredMargin(p.LotSize, price)
		if err == nil {
			used += req
		}
	}
	return margin.Snapshot{
		Balance:       s.led.Balance(),
		OpenPositions: s.led.OpenCount(),
		UsedMargin:    used,
	}
}
