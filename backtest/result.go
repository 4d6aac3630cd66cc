package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintReport writes a human-readable run summary.
func PrintReport(w io.Writer, r *Report) {
	s := r.Summary

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	if !r.Result.Start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", r.Result.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.Result.End.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Bars:          %d\n", r.Result.BarsProcessed)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "Total Pips:    %.1f\n", s.TotalPips)
	if s.ProfitFactorInfinite {
		fmt.Fprintf(w, "Profit Factor: inf (no losing trades)\n")
	} else {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}
	fmt.Fprintf(w, "Max Win Run:   %d\n", s.MaxConsecutiveWins)
	fmt.Fprintf(w, "Max Loss Run:  %d\n", s.MaxConsecutiveLosses)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.0f\n", s.InitialBalance)
	fmt.Fprintf(w, "End Balance:   %.0f\n", s.FinalBalance)
	fmt.Fprintf(w, "Net P/L:       %.0f\n", s.NetProfit)
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.TotalReturnPct)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.MaxDrawdown*100)
	fmt.Fprintf(w, "Commission:    %.0f\n", s.TotalCommission)

	if s.RejectedSignals > 0 || s.MarginRejections > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rejections")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Invalid:       %d\n", s.RejectedSignals)
		fmt.Fprintf(w, "Margin:        %d\n", s.MarginRejections)
	}

	if len(r.Monthly) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Monthly Performance")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "%-8s %7s %7s %9s %12s %14s\n",
			"Month", "Trades", "Wins", "WinRate", "Net P/L", "Cum Equity")
		for _, m := range r.Monthly {
			fmt.Fprintf(w, "%-8s %7d %7d %8.1f%% %12.0f %14.0f\n",
				m.Month, m.Trades, m.Wins, m.WinRate*100, m.NetProfit, m.CumulativeEquity)
		}
	}

	fmt.Fprintln(w)
}
