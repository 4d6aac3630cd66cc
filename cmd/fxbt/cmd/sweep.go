package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fxbt/backtest"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep lot sizes across parallel, isolated backtest runs",
	Long: `Sweep runs the same bar/signal datasets once per lot size. Each run
owns its own simulator and ledger, so runs execute in parallel without
locking.

Example:
  fxbt sweep --config fxbt.yaml --bars bars.csv --signals signals.csv --lots 0.01,0.05,0.1`,
	RunE: runSweep,
}

var (
	sweepLots    string
	sweepWorkers int
)

func init() {
	sweepCmd.Flags().StringVar(&runConfigPath, "config", "", "config file (YAML or JSON)")
	sweepCmd.Flags().StringVar(&runBarsPath, "bars", "", "bar CSV file")
	sweepCmd.Flags().StringVar(&runSignalsPath, "signals", "", "signal CSV file")
	sweepCmd.Flags().StringVar(&sweepLots, "lots", "0.01,0.02,0.05,0.1", "comma-separated lot sizes")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "parallel workers")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	barsPath := runBarsPath
	if barsPath == "" {
		barsPath = cfg.Data.Bars
	}
	if barsPath == "" {
		return fmt.Errorf("no bar dataset: pass --bars or set data.bars")
	}
	signalsPath := runSignalsPath
	if signalsPath == "" {
		signalsPath = cfg.Data.Signals
	}

	bars, err := backtest.LoadBars(barsPath, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	sigs, err := loadSignals(signalsPath)
	if err != nil {
		return err
	}

	var lots []float64
	for _, s := range strings.Split(sweepLots, ",") {
		lot, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bad --lots entry %q: %w", s, err)
		}
		lots = append(lots, lot)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	jobs := backtest.LotGrid(cfg.SimConfig(), sigs, lots)
	results := backtest.RunSweep(ctx, bars, jobs, sweepWorkers)

	fmt.Printf("%-10s %7s %8s %12s %9s %8s\n",
		"Job", "Trades", "WinRate", "Net P/L", "MaxDD", "PF")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-10s failed: %v\n", r.Name, r.Err)
			continue
		}
		s := r.Report.Summary
		pf := fmt.Sprintf("%.2f", s.ProfitFactor)
		if s.ProfitFactorInfinite {
			pf = "inf"
		}
		fmt.Printf("%-10s %7d %7.1f%% %12.0f %8.2f%% %8s\n",
			r.Name, s.TotalTrades, s.WinRate*100, s.NetProfit, s.MaxDrawdown*100, pf)
	}
	return nil
}
