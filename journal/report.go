package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// RunReport captures one backtest run for the org-mode research journal.
type RunReport struct {
	RunID   string
	Created time.Time
	Symbol  string
	Dataset string

	Start time.Time
	End   time.Time

	SpreadPips       float64
	CommissionPerLot float64
	MarginRate       float64
	MaxPositions     int

	Trades int
	Wins   int
	Losses int

	StartBalance float64
	EndBalance   float64

	NetPL                float64
	ReturnPct            float64
	WinRate              float64
	ProfitFactor         float64
	ProfitFactorInfinite bool
	MaxDDPct             float64

	RejectedSignals  int
	MarginRejections int

	OrgPath string
	Notes   []string
}

var runOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the report to its OrgPath.
func (v *RunReport) WriteOrg() error {
	t, err := template.New("run").Funcs(runOrgFuncs).Parse(runOrgTemplate)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, v); err != nil {
		return err
	}
	return os.WriteFile(v.OrgPath, buf.Bytes(), 0644)
}

const runOrgTemplate = `
* BACKTEST: {{.Symbol}} execution run
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:SYMBOL:      {{.Symbol}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_BAL:   {{printf "%.0f" .StartBalance}}
:END_BAL:     {{printf "%.0f" .EndBalance}}
:NET_PL:      {{printf "%.0f" .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" (mul100 .WinRate)}}
:PROFIT_FAC:  {{if .ProfitFactorInfinite}}inf{{else}}{{printf "%.2f" .ProfitFactor}}{{end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Execution Parameters
| Parameter          | Value |
|--------------------+-------|
| Spread (pips)      | {{printf "%.1f" .SpreadPips}} |
| Commission per lot | {{printf "%.0f" .CommissionPerLot}} |
| Margin rate        | {{printf "%.2f" .MarginRate}} |
| Max positions      | {{.MaxPositions}} |

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

** Rejections
| Kind    | Count |
|---------+-------|
| Invalid | {{.RejectedSignals}} |
| Margin  | {{.MarginRejections}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
