// Package runner drives one evaluation run end to end: it consumes the
// task agent's tool-call stream under the scenario's budgets, seals the
// ledger, and hands everything to the scoring orchestrator. The task
// agent itself is outside the trust boundary; only streams come in.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agentbeats/veritrail/internal/fixtures"
	"github.com/agentbeats/veritrail/internal/ledger"
	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/sandbox"
	"github.com/agentbeats/veritrail/internal/scenario"
	"github.com/agentbeats/veritrail/internal/scoring"
	"github.com/agentbeats/veritrail/internal/seed"
	"github.com/agentbeats/veritrail/internal/submission"
)

// EventKind discriminates stream events.
type EventKind string

const (
	EventToolCall   EventKind = "tool_call"
	EventSubmission EventKind = "submission"
	EventDone       EventKind = "done"
)

// Event is one step emitted by a task agent: a tool call, the final
// submission, or end of stream without a submission.
type Event struct {
	Kind       EventKind
	Tool       string
	Args       map[string]any
	Submission []byte
}

// ToolCallStream is the engine's view of a task agent. Next blocks until
// the agent produces its next event or ctx is done.
type ToolCallStream interface {
	Next(ctx context.Context) (Event, error)
}

// Outcome bundles one run's sealed evidence and its published report.
type Outcome struct {
	RunID      string
	Report     *models.ScoreReport
	Records    []models.ToolCallRecord
	Submission []byte
}

// Engine executes runs. It is safe for concurrent use; all per-run state
// (ledger, fixture store, sandbox) is created fresh inside Run.
type Engine struct {
	orch    *scoring.Orchestrator
	perturb *fixtures.Perturbation
	logger  *slog.Logger
	clock   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithOrchestrator replaces the default scoring orchestrator.
func WithOrchestrator(o *scoring.Orchestrator) Option {
	return func(e *Engine) { e.orch = o }
}

// WithPerturbation runs against perturbed fixtures. Used by stability
// reruns; normal runs see canonical fixtures.
func WithPerturbation(p *fixtures.Perturbation) Option {
	return func(e *Engine) { e.perturb = p }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides record timestamping, for deterministic exports.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// New builds an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		orch:   scoring.New(),
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runNamespace scopes name-based run UUIDs.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("veritrail.agentbeats.github.com"))

// DeriveRunID builds a run identifier from the run's inputs alone, so
// repeated runs of the same scenario carry the same ID and serialize to
// identical reports. Perturbed reruns get distinct IDs via the tag.
func DeriveRunID(sc *scenario.Scenario, perturb *fixtures.Perturbation) string {
	name := fmt.Sprintf("%s|%d|%s", sc.ID, sc.RootSeed, sc.DatasetVersion)
	if perturb != nil {
		name += "|" + perturb.Tag
	}
	return uuid.NewSHA1(runNamespace, []byte(name)).String()
}

// Run executes one evaluation run. A non-nil error means the engine
// itself failed; agent misbehavior (violations, budget exhaustion,
// timeouts) is reported through the score report's Failure field, not
// the error return.
func (e *Engine) Run(ctx context.Context, sc *scenario.Scenario, stream ToolCallStream) (*Outcome, error) {
	runID := DeriveRunID(sc, e.perturb)

	seeds, err := seed.NewManager(sc.RootSeed, sc.ID)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	store := fixtures.NewStore(sc.ID, sc.DatasetVersion)
	if e.perturb != nil {
		store = store.WithPerturbation(e.perturb)
	}
	led := ledger.New(runID)
	sb := sandbox.NewRunner(store, led, seeds.ToolSeed).WithClock(e.clock)

	timeout := time.Duration(sc.Budgets.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	e.logger.Info("run started", "run_id", runID, "scenario", sc.ID, "root_seed", sc.RootSeed)

	raw, failure := e.consume(ctx, sc, stream, sb)

	led.Seal()
	records, err := led.Export()
	if err != nil {
		return nil, fmt.Errorf("run %s: exporting ledger: %w", runID, err)
	}
	if err := led.Verify(); err != nil {
		failure = &models.RunFailure{
			Kind:   models.FailureLedgerIntegrity,
			Reason: err.Error(),
			Fatal:  true,
		}
	}

	var valRes *submission.Result
	if failure == nil || !failure.Fatal {
		if raw == nil {
			raw = []byte("{}")
		}
		valRes = submission.Validate(raw)
	}

	report := e.orch.Score(scoring.Input{
		RunID:      runID,
		Scenario:   sc,
		Validation: valRes,
		Records:    records,
		Failure:    failure,
	})

	return &Outcome{
		RunID:      runID,
		Report:     report,
		Records:    records,
		Submission: raw,
	}, nil
}

// consume drains the stream until a submission, a budget boundary, or a
// fatal violation. It returns the raw submission (nil when none arrived)
// and the failure to record, if any.
func (e *Engine) consume(ctx context.Context, sc *scenario.Scenario, stream ToolCallStream, sb *sandbox.Runner) ([]byte, *models.RunFailure) {
	calls := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, timeoutFailure(err)
		}

		ev, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, timeoutFailure(err)
			}
			return nil, &models.RunFailure{
				Kind:   models.FailureLedgerIntegrity,
				Reason: fmt.Sprintf("stream error: %v", err),
				Fatal:  true,
			}
		}

		switch ev.Kind {
		case EventToolCall:
			if calls >= sc.Budgets.MaxToolCalls {
				return nil, &models.RunFailure{
					Kind:   models.FailureIterationBudget,
					Reason: fmt.Sprintf("tool call budget of %d exhausted", sc.Budgets.MaxToolCalls),
				}
			}
			calls++
			if _, err := sb.Call(ev.Tool, ev.Args); err != nil {
				return nil, classifyCallFailure(err)
			}
		case EventSubmission:
			return ev.Submission, nil
		case EventDone:
			return nil, nil
		default:
			return nil, &models.RunFailure{
				Kind:   models.FailureLedgerIntegrity,
				Reason: fmt.Sprintf("unknown stream event kind %q", ev.Kind),
				Fatal:  true,
			}
		}
	}
}

func classifyCallFailure(err error) *models.RunFailure {
	var violation *sandbox.ViolationError
	if errors.As(err, &violation) {
		return &models.RunFailure{
			Kind:   models.FailureSandboxViolation,
			Reason: violation.Error(),
			Fatal:  true,
		}
	}
	var unknown *fixtures.UnknownToolError
	if errors.As(err, &unknown) {
		return &models.RunFailure{
			Kind:   models.FailureUnknownTool,
			Reason: unknown.Error(),
			Fatal:  true,
		}
	}
	return &models.RunFailure{
		Kind:   models.FailureLedgerIntegrity,
		Reason: err.Error(),
		Fatal:  true,
	}
}

func timeoutFailure(err error) *models.RunFailure {
	return &models.RunFailure{
		Kind:   models.FailureTimeout,
		Reason: err.Error(),
	}
}
