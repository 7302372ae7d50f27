// Package stability measures how much a submission's total score moves
// under non-semantic fixture perturbations. The spread is reported next
// to the total, never folded into it: a wide spread indicates the
// scoring pipeline is sensitive to presentation, not that the agent did
// worse.
package stability

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/agentbeats/veritrail/internal/fixtures"
	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/runner"
	"github.com/agentbeats/veritrail/internal/scenario"
	"github.com/agentbeats/veritrail/internal/seed"
	"github.com/agentbeats/veritrail/internal/statistics"
)

// Evaluator reruns a recorded stream against perturbed fixture worlds.
type Evaluator struct {
	logger *slog.Logger
	opts   []runner.Option
}

// New builds an evaluator. Extra runner options (a fixed clock, a custom
// orchestrator) are applied to every rerun engine.
func New(logger *slog.Logger, opts ...runner.Option) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger, opts: opts}
}

// Evaluate replays the stream N times, each against fixtures perturbed
// by a distinct derived seed, and summarizes the score spread against
// the scenario's threshold. Reruns are independent and execute
// concurrently.
func (e *Evaluator) Evaluate(ctx context.Context, sc *scenario.Scenario, newStream func() runner.ToolCallStream) (*models.StabilityResult, error) {
	seeds, err := seed.NewManager(sc.RootSeed, sc.ID)
	if err != nil {
		return nil, err
	}

	n := sc.Stability.Runs
	totals := make([]float64, n)

	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			perturb := fixtures.NewPerturbation(seeds.PerturbationSeed(i), i)
			eng := runner.New(append([]runner.Option{
				runner.WithPerturbation(perturb),
				runner.WithLogger(e.logger),
			}, e.opts...)...)

			out, err := eng.Run(ctx, sc, newStream())
			if err != nil {
				return fmt.Errorf("stability rerun %d: %w", i, err)
			}
			totals[i] = out.Report.Total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := Summarize(totals, sc.Stability.Threshold)
	e.logger.Info("stability evaluated",
		"scenario", sc.ID, "runs", n,
		"mean", result.Mean, "std_dev", result.StdDev, "stable", result.Stable)
	return result, nil
}

// ciSeed fixes the bootstrap resampling stream so identical rerun
// totals always summarize to the identical interval.
const ciSeed = 1

// Summarize folds rerun totals into a stability verdict. Stable means
// the standard deviation stays at or under the threshold; the spread
// and a 95% bootstrap confidence interval on the mean are reported for
// context.
func Summarize(totals []float64, threshold float64) *models.StabilityResult {
	sd := statistics.StdDev(totals)
	return &models.StabilityResult{
		Runs:      len(totals),
		Totals:    totals,
		Mean:      statistics.Mean(totals),
		StdDev:    sd,
		Spread:    statistics.Spread(totals),
		CI:        statistics.BootstrapCIWithSeed(totals, 0.95, ciSeed),
		Threshold: threshold,
		Stable:    sd <= threshold,
	}
}
