package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxbt",
	Short: "Trade-execution and portfolio-accounting engine for FX backtests",
	Long: `fxbt replays chronological price bars against discrete trade signals
and produces audit-grade accounting output.

It provides tools for:
  - Running a single backtest from bar and signal CSV datasets
  - Sweeping lot sizes across parallel, fully isolated runs
  - Journaling trades and equity curves to CSV or SQLite
  - Margin admission control with a hard capital-usage ceiling
  - Exact pip/yen P&L bookkeeping for JPY-quote pairs`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
