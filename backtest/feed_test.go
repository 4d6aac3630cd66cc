package backtest

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxbt/market"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeGzip(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const barCSV = `time,open,high,low,close,volume
2024-01-02T00:00:00Z,150.000,150.100,149.900,150.050,1200
2024-01-02T00:15:00Z,150.050,150.200,150.000,150.150,900
2024-01-02T00:30:00Z,150.150,150.300,150.100,150.250,1100
`

func TestLoadBars(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bars.csv", barCSV)

	bars, err := LoadBars(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.InDelta(t, 150.000, bars[0].Open, 1e-9)
	assert.InDelta(t, 150.100, bars[0].High, 1e-9)
	assert.InDelta(t, 149.900, bars[0].Low, 1e-9)
	assert.InDelta(t, 150.050, bars[0].Close, 1e-9)
	assert.InDelta(t, 1200, bars[0].Volume, 1e-9)
}

func TestLoadBarsNoHeader(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bars.csv",
		"2024-01-02T00:00:00Z,150.0,150.1,149.9,150.05\n")

	bars, err := LoadBars(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestLoadBarsWindow(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bars.csv", barCSV)

	from := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 30, 0, 0, time.UTC)

	bars, err := LoadBars(path, from, to)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, from, bars[0].Time)
}

func TestLoadBarsGzip(t *testing.T) {
	t.Parallel()

	path := writeGzip(t, "bars.csv.gz", barCSV)

	bars, err := LoadBars(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, bars, 3)
}

func TestLoadBarsBadField(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bars.csv",
		"2024-01-02T00:00:00Z,150.0,not-a-price,149.9,150.05\n")

	_, err := LoadBars(path, time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestLoadSignals(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "signals.csv", `time,direction,stop_pips,target_pips,lot,strategy
2024-01-02T00:00:00Z,1,10,30,0.1,macd_cross
2024-01-02T00:15:00Z,-1,15,20,,
`)

	sigs, err := LoadSignals(path)
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	assert.Equal(t, market.Buy, sigs[0].Direction)
	assert.InDelta(t, 10, sigs[0].StopPips, 1e-9)
	assert.InDelta(t, 30, sigs[0].TargetPips, 1e-9)
	assert.InDelta(t, 0.1, sigs[0].LotSize, 1e-9)
	assert.Equal(t, "macd_cross", sigs[0].Strategy)

	assert.Equal(t, market.Sell, sigs[1].Direction)
	assert.Zero(t, sigs[1].LotSize)
	assert.Empty(t, sigs[1].Strategy)
}

func TestLoadSignalsBadDirection(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "signals.csv", "2024-01-02T00:00:00Z,long,10,30\n")

	_, err := LoadSignals(path)
	assert.Error(t, err)
}
