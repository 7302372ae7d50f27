package runner

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agentbeats/veritrail/internal/scenario"
)

// BatchJob is one batch entry: a scenario plus a factory producing a
// fresh stream per run. A factory rather than a stream, because
// stability reruns consume the stream more than once.
type BatchJob struct {
	Scenario  *scenario.Scenario
	NewStream func() ToolCallStream
}

// RunBatch evaluates multiple scenario/stream pairs concurrently.
// Outcomes come back in input order; the first engine error cancels the
// remaining runs.
func (e *Engine) RunBatch(ctx context.Context, jobs []BatchJob) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, job := range jobs {
		g.Go(func() error {
			out, err := e.Run(ctx, job.Scenario, job.NewStream())
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
