package cmd

import (
	"fmt"
	"time"

	"fxbt/backtest"
	"fxbt/config"
	"fxbt/journal"
	"fxbt/market"
)

func loadSignals(path string) ([]market.Signal, error) {
	if path == "" {
		return nil, nil
	}
	sigs, err := backtest.LoadSignals(path)
	if err != nil {
		return nil, fmt.Errorf("load signals: %w", err)
	}
	return sigs, nil
}

func writeOrgReport(cfg *config.Config, rep *backtest.Report, dataset string) error {
	s := rep.Summary
	report := &journal.RunReport{
		RunID:   rep.RunID,
		Created: time.Now(),
		Symbol:  cfg.Account.Symbol,
		Dataset: dataset,

		Start: rep.Result.Start,
		End:   rep.Result.End,

		SpreadPips:       cfg.Engine.SpreadPips,
		CommissionPerLot: cfg.Engine.CommissionPerLot,
		MarginRate:       cfg.Engine.MarginRate,
		MaxPositions:     cfg.Engine.MaxPositions,

		Trades: s.TotalTrades,
		Wins:   s.Wins,
		Losses: s.Losses,

		StartBalance: s.InitialBalance,
		EndBalance:   s.FinalBalance,

		NetPL:                s.NetProfit,
		ReturnPct:            s.TotalReturnPct,
		WinRate:              s.WinRate,
		ProfitFactor:         s.ProfitFactor,
		ProfitFactorInfinite: s.ProfitFactorInfinite,
		MaxDDPct:             s.MaxDrawdown * 100,

		RejectedSignals:  s.RejectedSignals,
		MarginRejections: s.MarginRejections,

		OrgPath: runOrgPath,
	}
	return report.WriteOrg()
}
