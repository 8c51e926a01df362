package reconcile

import (
	"context"

	"github.com/arthur-debert/agentsync/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Runner executes a list of jobs and sums their results
type Runner struct {
	reconciler *Reconciler
	workers    int
}

// NewRunner creates a Runner. With workers <= 1 jobs run strictly one
// after another in list order; otherwise up to workers jobs run at once.
// Each job keeps its own forward-then-sweep ordering either way.
func NewRunner(reconciler *Reconciler, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{reconciler: reconciler, workers: workers}
}

// Run reconciles every job. Per-entry and per-job problems are recorded in
// the summary, not returned; the error is only set when ctx is cancelled
// before all jobs started.
func (r *Runner) Run(ctx context.Context, jobs []types.Job) (types.Summary, error) {
	summary := types.Summary{DryRun: r.reconciler.dryRun}
	reports := make([]types.JobReport, len(jobs))
	started := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started[i] = true
			reports[i] = r.reconciler.Reconcile(job)
			return nil
		})
	}
	err := g.Wait()

	for i, report := range reports {
		if !started[i] {
			continue
		}
		summary.Jobs = append(summary.Jobs, report)
		summary.Total.Add(report.Result)
	}
	return summary, err
}
