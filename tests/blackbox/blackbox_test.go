//go:build blackbox

package blackbox

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fxbtBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "fxbt-blackbox-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	fxbtBin = filepath.Join(tmp, "fxbt")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", fxbtBin, "./cmd/fxbt")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	cmd := exec.Command(fxbtBin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command failed: %v\nargs: %v\noutput:\n%s", err, args, string(out))
	}
	return string(out)
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// writeBarsCSV generates n flat 15-minute bars from a fixed origin, with
// per-bar prices supplied by fn.
func writeBarsCSV(t *testing.T, path string, n int, fn func(i int) (o, h, l, c float64)) time.Time {
	t.Helper()

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	var sb strings.Builder
	sb.WriteString("time,open,high,low,close\n")
	for i := 0; i < n; i++ {
		o, h, l, c := fn(i)
		sb.WriteString(fmt.Sprintf("%s,%.3f,%.3f,%.3f,%.3f\n",
			start.Add(time.Duration(i)*15*time.Minute).Format(time.RFC3339), o, h, l, c))
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return start
}

func writeSignalsCSV(t *testing.T, path string, rows []string) {
	t.Helper()

	content := "time,direction,stop_pips,target_pips,lot,strategy\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
