package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportWriteOrg(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.org")

	rep := &RunReport{
		RunID:   "01HV0TESTRUN",
		Created: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Symbol:  "USDJPY",
		Dataset: "usdjpy_m15.csv",

		Start: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),

		SpreadPips:       0.2,
		CommissionPerLot: 0,
		MarginRate:       0.04,
		MaxPositions:     10,

		Trades: 42,
		Wins:   25,
		Losses: 17,

		StartBalance: 3_000_000,
		EndBalance:   3_150_000,

		NetPL:        150_000,
		ReturnPct:    5,
		WinRate:      25.0 / 42.0,
		ProfitFactor: 1.8,
		MaxDDPct:     3.25,

		RejectedSignals:  2,
		MarginRejections: 1,

		OrgPath: path,
		Notes:   []string{"drawdown clustered in March"},
	}

	require.NoError(t, rep.WriteOrg())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "* BACKTEST: USDJPY execution run")
	assert.Contains(t, out, ":RUN_ID:      01HV0TESTRUN")
	assert.Contains(t, out, ":DATASET:     usdjpy_m15.csv")
	assert.Contains(t, out, ":START_DATE:  2024-01-02")
	assert.Contains(t, out, ":END_DATE:    2024-06-28")
	assert.Contains(t, out, ":NET_PL:      150000")
	assert.Contains(t, out, ":RETURN_PCT:  5.00")
	assert.Contains(t, out, ":WIN_RATE:    59.52")
	assert.Contains(t, out, ":PROFIT_FAC:  1.80")
	assert.Contains(t, out, ":TRADES:      42")
	assert.Contains(t, out, "** Execution Parameters")
	assert.Contains(t, out, "** Rejections")
	assert.Contains(t, out, "- drawdown clustered in March")
}

func TestRunReportWriteOrgInfiniteProfitFactor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.org")

	rep := &RunReport{
		RunID:                "01HV0TESTRUN",
		Symbol:               "USDJPY",
		Trades:               3,
		Wins:                 3,
		ProfitFactorInfinite: true,
		OrgPath:              path,
	}

	require.NoError(t, rep.WriteOrg())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":PROFIT_FAC:  inf")
}
