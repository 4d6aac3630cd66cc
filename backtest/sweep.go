package backtest

import (
	"context"
	"strconv"
	"sync"

	"fxbt/market"
	"fxbt/sim"
)

// Job is one independent run in a parameter sweep. Each job gets its own
// simulator and ledger; the bar slice is shared read-only.
type Job struct {
	Name    string
	Config  sim.Config
	Signals []market.Signal
}

// JobResult pairs a job with its report or failure.
type JobResult struct {
	Name   string
	Report *Report
	Err    error
}

// RunSweep evaluates jobs across a bounded worker pool. Runs are isolated,
// so no locking is needed beyond the work queue itself. Results come back
// in job order. Cancelling the context abandons unstarted jobs; a job
// already running completes.
func RunSweep(ctx context.Context, bars []market.Bar, jobs []Job, workers int) []JobResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]JobResult, len(jobs))
	work := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				job := jobs[i]
				runner := &Runner{Config: job.Config}
				rep, err := runner.Run(bars, job.Signals)
				results[i] = JobResult{Name: job.Name, Report: rep, Err: err}
			}
		}()
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = JobResult{Name: jobs[i].Name, Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = JobResult{Name: jobs[i].Name, Err: ctx.Err()}
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	return results
}

// LotGrid builds a sweep over lot sizes sharing one base config and signal
// set: the one sizing dimension the execution engine owns.
func LotGrid(base sim.Config, signals []market.Signal, lots []float64) []Job {
	jobs := make([]Job, 0, len(lots))
	for _, lot := range lots {
		cfg := base
		cfg.DefaultLotSize = lot
		sigs := make([]market.Signal, len(signals))
		for i, s := range signals {
			s.LotSize = lot
			sigs[i] = s
		}
		jobs = append(jobs, Job{
			Name:    "lot=" + strconv.FormatFloat(lot, 'f', 2, 64),
			Config:  cfg,
			Signals: sigs,
		})
	}
	return jobs
}
