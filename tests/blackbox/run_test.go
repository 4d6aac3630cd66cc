//go:build blackbox

package blackbox

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func TestRun_TakeProfitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	barsPath := filepath.Join(dir, "bars.csv")
	sigsPath := filepath.Join(dir, "signals.csv")

	// Phase 1: flat at 150. Phase 2: grind up through the 30-pip target.
	start := writeBarsCSV(t, barsPath, 20, func(i int) (o, h, l, c float64) {
		base := 150.0
		if i >= 10 {
			base = 150.0 + float64(i-9)*0.05
		}
		return base, base + 0.05, base - 0.05, base
	})

	writeSignalsCSV(t, sigsPath, []string{
		start.Format(time.RFC3339) + ",1,10,30,0.1,blackbox",
	})

	out := run(t, "run", "--bars", barsPath, "--signals", sigsPath)

	if !contains(out, "Backtest Result") {
		t.Fatalf("missing summary header in output:\n%s", out)
	}
	if !contains(out, "Trades:        1") {
		t.Fatalf("expected exactly one trade:\n%s", out)
	}
	if !contains(out, "Wins:          1") {
		t.Fatalf("expected a winning trade:\n%s", out)
	}
	if !contains(out, "Total Pips:    30.0") {
		t.Fatalf("expected a 30-pip take-profit exit:\n%s", out)
	}
}

func TestRun_SQLiteJournalPersistsTrades(t *testing.T) {
	dir := t.TempDir()
	barsPath := filepath.Join(dir, "bars.csv")
	sigsPath := filepath.Join(dir, "signals.csv")
	cfgPath := filepath.Join(dir, "fxbt.yaml")
	dbPath := filepath.Join(dir, "runs.db")

	start := writeBarsCSV(t, barsPath, 12, func(i int) (o, h, l, c float64) {
		base := 150.0 + float64(i)*0.05
		return base, base + 0.05, base - 0.05, base
	})

	writeSignalsCSV(t, sigsPath, []string{
		start.Format(time.RFC3339) + ",1,10,30,0.1,blackbox",
	})

	cfg := `
account:
  symbol: USDJPY
  balance: 3000000
engine:
  spread_pips: 0.2
  margin_rate: 0.04
  max_positions: 5
  close_at_end: true
journal:
  type: sqlite
  db_path: ` + dbPath + `
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	run(t, "run", "--config", cfgPath, "--bars", barsPath, "--signals", sigsPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var trades int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&trades); err != nil {
		t.Fatal(err)
	}
	if trades != 1 {
		t.Fatalf("want 1 journaled trade, got %d", trades)
	}

	var equity int
	if err := db.QueryRow(`SELECT COUNT(*) FROM equity`).Scan(&equity); err != nil {
		t.Fatal(err)
	}
	if equity != 12 {
		t.Fatalf("want one equity row per bar (12), got %d", equity)
	}

	var runID string
	if err := db.QueryRow(`SELECT run_id FROM trades`).Scan(&runID); err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("journaled trade has no run id")
	}
}

func TestSweep_ScalesWithLotSize(t *testing.T) {
	dir := t.TempDir()
	barsPath := filepath.Join(dir, "bars.csv")
	sigsPath := filepath.Join(dir, "signals.csv")

	start := writeBarsCSV(t, barsPath, 12, func(i int) (o, h, l, c float64) {
		base := 150.0 + float64(i)*0.05
		return base, base + 0.05, base - 0.05, base
	})

	writeSignalsCSV(t, sigsPath, []string{
		start.Format(time.RFC3339) + ",1,10,30,,blackbox",
	})

	out := run(t, "sweep",
		"--bars", barsPath,
		"--signals", sigsPath,
		"--lots", "0.01,0.1",
		"--workers", "2",
	)

	if !contains(out, "lot=0.01") || !contains(out, "lot=0.10") {
		t.Fatalf("missing sweep rows:\n%s", out)
	}
	// 30 pips: 0.01 lot pays 300 yen, 0.1 lot pays 3000.
	if !contains(out, "300") || !contains(out, "3000") {
		t.Fatalf("net P/L should scale with lot size:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	if !contains(out, "fxbt version") {
		t.Fatalf("unexpected version output: %s", out)
	}
}
