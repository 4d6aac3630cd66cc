package backtest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"fxbt/market"
)

// openReader opens a dataset file, transparently decompressing .gz and .xz
// archives. Research datasets are usually stored compressed.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{zr, f}, nil
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{xr, f}, nil
	}
	return f, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// LoadBars reads bar rows:
//
//	time,open,high,low,close[,volume]
//
// where time is RFC3339. A header row is allowed. Rows outside [from, to)
// are skipped when the bounds are non-zero. Bars are materialized fully in
// memory before the run; the engine never does I/O.
func LoadBars(path string, from, to time.Time) ([]market.Bar, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	var bars []market.Bar
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		if !sawFirst {
			sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		if len(row) < 5 {
			continue
		}

		t, err := parseTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad bar time %q: %w", row[0], err)
		}
		if !inRange(t, from, to) {
			continue
		}

		var b market.Bar
		b.Time = t
		for i, dst := range []*float64{&b.Open, &b.High, &b.Low, &b.Close} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("bad bar field %q: %w", row[i+1], err)
			}
			*dst = v
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err == nil {
				b.Volume = v
			}
		}
		bars = append(bars, b)
	}
}

// LoadSignals reads signal rows:
//
//	time,direction,stop_pips,target_pips[,lot[,strategy]]
//
// direction is +1/-1/0. Lot 0 or an empty field defers sizing to the
// engine. A header row is allowed.
func LoadSignals(path string) ([]market.Signal, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	var sigs []market.Signal
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			return sigs, nil
		}
		if err != nil {
			return nil, err
		}
		if !sawFirst {
			sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		if len(row) < 4 {
			continue
		}

		t, err := parseTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad signal time %q: %w", row[0], err)
		}
		dir, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("bad direction %q: %w", row[1], err)
		}
		stop, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad stop pips %q: %w", row[2], err)
		}
		target, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad target pips %q: %w", row[3], err)
		}

		sig := market.Signal{
			Time:       t,
			Direction:  market.Direction(dir),
			StopPips:   stop,
			TargetPips: target,
		}
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			lot, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
			if err != nil {
				return nil, fmt.Errorf("bad lot %q: %w", row[4], err)
			}
			sig.LotSize = lot
		}
		if len(row) > 5 {
			sig.Strategy = strings.TrimSpace(row[5])
		}
		sigs = append(sigs, sig)
	}
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
