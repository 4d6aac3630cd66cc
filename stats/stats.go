// Package stats derives performance metrics from a finished run. It only
// reads; the figures are a pure function of the trade log and equity curve.
package stats

import (
	"fxbt/sim"
)

// Summary is the scalar metrics snapshot for one run.
//
// ProfitFactor policy: gross_profit/gross_loss when there are losses;
// when there are profits and zero losses the factor is undefined-infinite
// and ProfitFactorInfinite is set with ProfitFactor left 0; when both are
// zero the factor is plain 0. The two cases are never conflated.
type Summary struct {
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`

	GrossProfit          float64 `json:"gross_profit"`
	GrossLoss            float64 `json:"gross_loss"`
	NetProfit            float64 `json:"net_profit"`
	ProfitFactor         float64 `json:"profit_factor"`
	ProfitFactorInfinite bool    `json:"profit_factor_infinite"`

	AvgWin    float64 `json:"avg_win"`
	AvgLoss   float64 `json:"avg_loss"`
	TotalPips float64 `json:"total_pips"`

	MaxDrawdown float64 `json:"max_drawdown"`

	MaxConsecutiveWins   int `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int `json:"max_consecutive_losses"`

	RejectedSignals  int `json:"rejected_signals"`
	MarginRejections int `json:"margin_rejections"`

	TotalCommission float64 `json:"total_commission"`
	InitialBalance  float64 `json:"initial_balance"`
	FinalBalance    float64 `json:"final_balance"`
	PeakBalance     float64 `json:"peak_balance"`
	TotalReturnPct  float64 `json:"total_return_pct"`
}

// Summarize folds a run result into its summary.
func Summarize(r *sim.Result) Summary {
	s := Summary{
		MaxConsecutiveWins:   r.Streaks.MaxWins,
		MaxConsecutiveLosses: r.Streaks.MaxLosses,
		RejectedSignals:      r.RejectedSignals,
		MarginRejections:     r.MarginRejections,
		TotalCommission:      r.TotalCommission,
		InitialBalance:       r.InitialBalance,
		FinalBalance:         r.FinalBalance,
		PeakBalance:          r.PeakBalance,
	}

	for _, tr := range r.TradeLog {
		s.TotalTrades++
		s.NetProfit += tr.PnLAmount
		s.TotalPips += tr.PnLPips
		if tr.PnLAmount > 0 {
			s.Wins++
			s.GrossProfit += tr.PnLAmount
		} else {
			s.Losses++
			s.GrossLoss += -tr.PnLAmount
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades)
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = -s.GrossLoss / float64(s.Losses)
	}

	switch {
	case s.GrossLoss > 0:
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	case s.GrossProfit > 0:
		s.ProfitFactorInfinite = true
	}

	s.MaxDrawdown = MaxDrawdown(r)
	if r.InitialBalance > 0 {
		s.TotalReturnPct = (r.FinalBalance - r.InitialBalance) / r.InitialBalance * 100
	}
	return s
}

// MaxDrawdown is the largest fractional decline from a running equity peak
// over the equity curve.
func MaxDrawdown(r *sim.Result) float64 {
	var peak, maxDD float64
	for _, e := range r.EquityCurve {
		if e.Equity > peak {
			peak = e.Equity
		}
		if peak > 0 {
			if dd := (peak - e.Equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
