// Package scoring assembles the terminal score report for a run. The
// orchestrator runs every registered validator in order, folds in
// grounding, ranking, and schema results, and publishes one immutable
// report. Failed runs still produce a report: fatal failures zero the
// total, budget and timeout failures score the sealed partial ledger
// as-is.
package scoring

import (
	"log/slog"
	"sort"
	"time"

	"github.com/agentbeats/veritrail/internal/grounding"
	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/ranking"
	"github.com/agentbeats/veritrail/internal/scenario"
	"github.com/agentbeats/veritrail/internal/submission"
	"github.com/agentbeats/veritrail/internal/validators"
)

// DefaultCutoffs are the NDCG cutoffs reported for every run.
var DefaultCutoffs = []int{3, 5}

// Orchestrator wires the scoring stages together. Validators are
// registered explicitly at construction time; the zero value is not
// usable.
type Orchestrator struct {
	validators []validators.Validator
	cutoffs    []int
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithValidators replaces the default validator set.
func WithValidators(vs ...validators.Validator) Option {
	return func(o *Orchestrator) { o.validators = vs }
}

// WithCutoffs replaces the default NDCG cutoffs.
func WithCutoffs(ks ...int) Option {
	return func(o *Orchestrator) { o.cutoffs = ks }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock overrides report timestamping, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New builds an orchestrator with the default validator set.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		validators: validators.Default(),
		cutoffs:    DefaultCutoffs,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Input carries everything one scoring pass consumes. Records must come
// from a sealed ledger export; the orchestrator never mutates them.
type Input struct {
	RunID      string
	Scenario   *scenario.Scenario
	Validation *submission.Result
	Records    []models.ToolCallRecord
	Failure    *models.RunFailure
}

// Score produces the run's report. The report is fully populated before
// it is returned, so callers may treat it as published the moment they
// hold the pointer.
func (o *Orchestrator) Score(in Input) *models.ScoreReport {
	report := &models.ScoreReport{
		RunID:       in.RunID,
		ScenarioID:  in.Scenario.ID,
		RootSeed:    in.Scenario.RootSeed,
		GeneratedAt: o.now().UTC(),
		Weights:     in.Scenario.EffectiveWeights(),
		Failure:     in.Failure,
	}

	if in.Failure != nil && in.Failure.Fatal {
		o.logger.Warn("scoring fatal run", "run_id", in.RunID, "kind", in.Failure.Kind)
		report.Ranking = models.RankingScores{NDCG: emptyCutoffs(o.cutoffs)}
		return report
	}

	report.SchemaValid = in.Validation.Valid
	report.SchemaIssue = in.Validation.Issues
	sub := in.Validation.Submission

	claims := submission.ExtractClaims(sub)
	report.Grounding = grounding.Check(claims, in.Records)

	report.Validators = make([]models.ValidatorReport, 0, len(o.validators))
	for _, v := range o.validators {
		vr := v.Evaluate(sub, in.Records, in.Scenario)
		report.Validators = append(report.Validators, vr)
		o.logger.Debug("validator evaluated",
			"run_id", in.RunID, "category", vr.Category,
			"score", vr.Score, "findings", len(vr.Findings))
	}
	sort.Slice(report.Validators, func(i, j int) bool {
		return report.Validators[i].Category < report.Validators[j].Category
	})

	report.Ranking = ranking.Score(sub, in.Records, in.Scenario, o.cutoffs)
	report.Total = weightedTotal(report)

	o.logger.Info("run scored",
		"run_id", in.RunID, "scenario", in.Scenario.ID,
		"total", report.Total, "grounding", report.Grounding.Score)
	return report
}

// weightedTotal combines the category scores under the report's weights.
// Validator categories average with equal weight inside their share.
func weightedTotal(r *models.ScoreReport) float64 {
	w := r.Weights

	validatorMean := 0.0
	if len(r.Validators) > 0 {
		for _, v := range r.Validators {
			validatorMean += v.Score
		}
		validatorMean /= float64(len(r.Validators))
	}

	schemaScore := 0.0
	if r.SchemaValid {
		schemaScore = 1.0
	}

	total := w.Grounding*r.Grounding.Score +
		w.Validators*validatorMean +
		w.Ranking*primaryNDCG(r.Ranking) +
		w.Schema*schemaScore
	if total < 0 {
		return 0
	}
	if total > 1 {
		return 1
	}
	return total
}

// primaryNDCG picks the smallest cutoff's score; that is the strictest
// view of the ranking.
func primaryNDCG(rs models.RankingScores) float64 {
	best := -1
	for k := range rs.NDCG {
		if best < 0 || k < best {
			best = k
		}
	}
	if best < 0 {
		return 0
	}
	return rs.NDCG[best]
}

func emptyCutoffs(ks []int) map[int]float64 {
	m := make(map[int]float64, len(ks))
	for _, k := range ks {
		m[k] = 0
	}
	return m
}
