package backtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxbt/journal"
	"fxbt/market"
	"fxbt/sim"
)

func testBars(n int) []market.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = market.Bar{
			Time:  start.Add(time.Duration(i) * 15 * time.Minute),
			Open:  150.0,
			High:  150.5,
			Low:   149.5,
			Close: 150.0,
		}
	}
	return bars
}

func testSimConfig() sim.Config {
	return sim.Config{
		Symbol:         "USDJPY",
		InitialBalance: 3_000_000,
		SpreadPips:     0.2,
		MarginRate:     0.04,
		MaxPositions:   5,
		DefaultLotSize: 0.1,
		CloseAtEnd:     true,
	}
}

func TestRunnerAssignsRunID(t *testing.T) {
	t.Parallel()

	r := &Runner{Config: testSimConfig()}
	rep, err := r.Run(testBars(3), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, r.RunID, rep.RunID)
	assert.Equal(t, 3, rep.Result.BarsProcessed)
	assert.Zero(t, rep.Summary.TotalTrades)
}

func TestRunnerKeepsExplicitRunID(t *testing.T) {
	t.Parallel()

	r := &Runner{Config: testSimConfig(), RunID: "run-77"}
	rep, err := r.Run(testBars(1), nil)
	require.NoError(t, err)
	assert.Equal(t, "run-77", rep.RunID)
}

func TestRunnerReportDerivesStats(t *testing.T) {
	t.Parallel()

	bars := testBars(4)
	sigs := []market.Signal{{
		Time:       bars[0].Time,
		Direction:  market.Buy,
		StopPips:   10,
		TargetPips: 30,
		LotSize:    0.1,
	}}

	r := &Runner{Config: testSimConfig()}
	rep, err := r.Run(bars, sigs)
	require.NoError(t, err)

	require.Equal(t, 1, rep.Summary.TotalTrades)
	assert.Len(t, rep.Monthly, 1)
	assert.Equal(t, "2024-01", rep.Monthly[0].Month)
	assert.InDelta(t, rep.Result.FinalBalance, rep.Summary.FinalBalance, 1e-9)
}

func TestRunnerTagsSQLiteJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runs.db")
	j, err := journal.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	bars := testBars(4)
	sigs := []market.Signal{{
		Time:       bars[0].Time,
		Direction:  market.Buy,
		StopPips:   10,
		TargetPips: 30,
		LotSize:    0.1,
	}}

	r := &Runner{Config: testSimConfig(), Journal: j, RunID: "run-sqlite"}
	rep, err := r.Run(bars, sigs)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Summary.TotalTrades)

	// Rows landed under the runner's id.
	got, err := j.GetTrade(rep.Result.TradeLog[0].PositionID)
	require.NoError(t, err)
	assert.Equal(t, "BUY", got.OrderType)
}

func TestRunnerPropagatesBadBars(t *testing.T) {
	t.Parallel()

	bars := testBars(2)
	bars[1].High = 140.0 // below low

	r := &Runner{Config: testSimConfig()}
	_, err := r.Run(bars, nil)
	assert.Error(t, err)
}
