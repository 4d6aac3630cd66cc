package stats

import (
	"sort"

	"fxbt/sim"
)

// MonthRow is one calendar month of closed trades, keyed by exit month.
// CumulativeEquity is initial balance plus the running net profit through
// the end of the row's month.
type MonthRow struct {
	Month            string  `json:"month"` // "2006-01"
	Trades           int     `json:"trades"`
	Wins             int     `json:"wins"`
	WinRate          float64 `json:"win_rate"`
	NetProfit        float64 `json:"net_profit"`
	TotalPips        float64 `json:"total_pips"`
	CumulativeEquity float64 `json:"cumulative_equity"`
}

// MonthlyPerformance groups the trade log by exit month, oldest first.
func MonthlyPerformance(r *sim.Result) []MonthRow {
	byMonth := make(map[string]*MonthRow)
	for _, tr := range r.TradeLog {
		key := tr.ExitTime.Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = &MonthRow{Month: key}
			byMonth[key] = row
		}
		row.Trades++
		if tr.PnLAmount > 0 {
			row.Wins++
		}
		row.NetProfit += tr.PnLAmount
		row.TotalPips += tr.PnLPips
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthRow, 0, len(months))
	running := r.InitialBalance
	for _, m := range months {
		row := *byMonth[m]
		if row.Trades > 0 {
			row.WinRate = float64(row.Wins) / float64(row.Trades)
		}
		running += row.NetProfit
		row.CumulativeEquity = running
		out = append(out, row)
	}
	return out
}
