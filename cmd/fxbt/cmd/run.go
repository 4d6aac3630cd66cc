package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fxbt/backtest"
	"fxbt/config"
	"fxbt/journal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one backtest over bar and signal CSV files",
	Long: `Run replays a bar dataset against a signal dataset and prints the
accounting summary. Bars and signals must be pre-aligned on timestamps.

Example:
  fxbt run --config fxbt.yaml --bars data/usdjpy_m15.csv --signals signals.csv`,
	RunE: runBacktest,
}

var (
	runConfigPath  string
	runBarsPath    string
	runSignalsPath string
	runFrom        string
	runTo          string
	runOrgPath     string
)

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "config file (YAML or JSON)")
	runCmd.Flags().StringVar(&runBarsPath, "bars", "", "bar CSV file (.csv, .csv.gz or .csv.xz)")
	runCmd.Flags().StringVar(&runSignalsPath, "signals", "", "signal CSV file")
	runCmd.Flags().StringVar(&runFrom, "from", "", "start of bar window (RFC3339)")
	runCmd.Flags().StringVar(&runTo, "to", "", "end of bar window, exclusive (RFC3339)")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "write an org-mode run report to this path")
	rootCmd.AddCommand(runCmd)
}

func loadRunConfig() (*config.Config, error) {
	if runConfigPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(runConfigPath)
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return journal.Discard{}, nil
}

func parseWindow() (from, to time.Time, err error) {
	if runFrom != "" {
		if from, err = time.Parse(time.RFC3339, runFrom); err != nil {
			return from, to, fmt.Errorf("bad --from: %w", err)
		}
	}
	if runTo != "" {
		if to, err = time.Parse(time.RFC3339, runTo); err != nil {
			return from, to, fmt.Errorf("bad --to: %w", err)
		}
	}
	return from, to, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
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

	from, to, err := parseWindow()
	if err != nil {
		return err
	}

	bars, err := backtest.LoadBars(barsPath, from, to)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	sigs, err := loadSignals(signalsPath)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runner := &backtest.Runner{Config: cfg.SimConfig(), Journal: j}
	rep, err := runner.Run(bars, sigs)
	if err != nil {
		return err
	}

	backtest.PrintReport(os.Stdout, rep)

	if runOrgPath != "" {
		if err := writeOrgReport(cfg, rep, barsPath); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
	}
	return nil
}
