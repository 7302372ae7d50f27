package models

import (
	"time"

	"github.com/agentbeats/veritrail/internal/statistics"
)

// Severity grades a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Machine-readable finding codes. Fatal run failures use the Failure codes
// below instead; findings never abort a run.
const (
	CodeSchemaError             = "schema_error"
	CodeUngroundedClaim         = "ungrounded_claim"
	CodeContradictedClaim       = "contradicted_claim"
	CodeInfeasible              = "infeasible"
	CodeTimingViolation         = "timing_violation"
	CodeGeoIncoherence          = "geo_incoherence"
	CodePersonalizationMismatch = "personalization_mismatch"
	CodeBudgetMismatch          = "budget_mismatch"
)

// Finding is one machine-readable validator observation with a
// human-readable explanation.
type Finding struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
}

// ValidatorReport is the immutable output of one domain validator:
// a 0-1 category score plus findings. Validators never raise errors;
// every failure mode is a finding.
type ValidatorReport struct {
	Category string    `json:"category"`
	Score    float64   `json:"score"`
	Findings []Finding `json:"findings,omitempty"`
}

// SchemaIssue is one path-level submission schema violation.
type SchemaIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FailureKind classifies run-level failures recorded on a ScoreReport.
type FailureKind string

const (
	FailureSandboxViolation FailureKind = "sandbox_violation"
	FailureUnknownTool      FailureKind = "unknown_tool"
	FailureLedgerIntegrity  FailureKind = "ledger_integrity"
	FailureTimeout          FailureKind = "timeout"
	FailureIterationBudget  FailureKind = "iteration_budget_exceeded"
)

// RunFailure records why a run ended abnormally. Fatal kinds force the
// weighted total to zero; timeout and iteration-budget kinds score the
// sealed partial ledger as-is.
type RunFailure struct {
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
	Fatal  bool        `json:"fatal"`
}

// RankingScores holds NDCG@K values keyed by K.
type RankingScores struct {
	NDCG map[int]float64 `json:"ndcg"`
}

// StabilityResult summarizes perturbation reruns of the pipeline.
type StabilityResult struct {
	Runs      int                            `json:"runs"`
	Totals    []float64                      `json:"totals"`
	Mean      float64                        `json:"mean"`
	StdDev    float64                        `json:"std_dev"`
	Spread    float64                        `json:"spread"`
	CI        statistics.ConfidenceInterval  `json:"confidence_interval"`
	Threshold float64                        `json:"threshold"`
	Stable    bool                           `json:"stable"`
}

// Weights is the documented weighting scheme for the final total.
// Stability spread is reported alongside the total, never folded in:
// it measures the engine, not the agent.
type Weights struct {
	Grounding  float64 `json:"grounding"`
	Validators float64 `json:"validators"`
	Ranking    float64 `json:"ranking"`
	Schema     float64 `json:"schema"`
}

// DefaultWeights returns the standard weighting scheme.
func DefaultWeights() Weights {
	return Weights{Grounding: 0.35, Validators: 0.35, Ranking: 0.20, Schema: 0.10}
}

// GroundingSummary aggregates per-claim verdicts.
type GroundingSummary struct {
	Results      []GroundingResult `json:"results"`
	Grounded     int               `json:"grounded"`
	Contradicted int               `json:"contradicted"`
	Unsupported  int               `json:"unsupported"`
	Score        float64           `json:"score"`
}

// ScoreReport is the terminal artifact of one run. It is created once,
// fully populated, and never mutated after publish.
type ScoreReport struct {
	RunID       string            `json:"run_id"`
	ScenarioID  string            `json:"scenario_id"`
	RootSeed    int64             `json:"root_seed"`
	GeneratedAt time.Time         `json:"generated_at,omitzero"`
	SchemaValid bool              `json:"schema_valid"`
	SchemaIssue []SchemaIssue     `json:"schema_issues,omitempty"`
	Grounding   GroundingSummary  `json:"grounding"`
	Validators  []ValidatorReport `json:"validators"`
	Ranking     RankingScores     `json:"ranking"`
	Stability   *StabilityResult  `json:"stability,omitempty"`
	Weights     Weights           `json:"weights"`
	Total       float64           `json:"total"`
	Failure     *RunFailure       `json:"failure,omitempty"`
}

// ValidatorScore returns the named category score, or 0 when absent.
func (r *ScoreReport) ValidatorScore(category string) float64 {
	for _, v := range r.Validators {
		if v.Category == category {
			return v.Score
		}
	}
	return 0
}
