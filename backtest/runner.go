package backtest

import (
	"fmt"

	"fxbt/journal"
	"fxbt/market"
	"fxbt/pkg/id"
	"fxbt/sim"
	"fxbt/stats"
)

// Runner glues a simulator run to its journal and derived statistics.
type Runner struct {
	Config  sim.Config
	Journal journal.Journal // optional
	RunID   string          // assigned when empty
}

// Report is one run's complete, derived output.
type Report struct {
	RunID   string           `json:"run_id"`
	Result  *sim.Result      `json:"result"`
	Summary stats.Summary    `json:"summary"`
	Monthly []stats.MonthRow `json:"monthly"`
}

// Run executes one backtest over pre-aligned bars and signals.
func (r *Runner) Run(bars []market.Bar, signals []market.Signal) (*Report, error) {
	if r.RunID == "" {
		r.RunID = id.New()
	}
	if j, ok := r.Journal.(*journal.SQLiteJournal); ok {
		j.SetRunID(r.RunID)
	}

	s := sim.New(r.Config, r.Journal)
	res, err := s.Run(bars, signals)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", r.RunID, err)
	}

	return &Report{
		RunID:   r.RunID,
		Result:  res,
		Summary: stats.Summarize(res),
		Monthly: stats.MonthlyPerformance(res),
	}, nil
}
