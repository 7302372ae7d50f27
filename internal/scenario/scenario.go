// Package scenario loads and validates evaluation scenario definitions.
// A scenario fixes everything one run needs: the root seed, the traveler
// brief, the fixture dataset version, and the run budgets. Scenarios are
// immutable once a run starts.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/validation"
)

// Default values for scenario budgets. These are the single source of
// truth — applyDefaults references them and no other code should
// duplicate them.
const (
	DefaultMaxToolCalls        = 40
	DefaultTimeoutSec          = 120
	DefaultMaxActivitiesPerDay = 4
	DefaultTransferBufferMin   = 30
	DefaultStabilityRuns       = 5
	DefaultStabilityThreshold  = 0.05
	DefaultDatasetVersion      = "v1"
)

// Scenario describes one evaluation run: the traveler brief, resource
// budgets, scoring weights, and stability settings.
type Scenario struct {
	ID             string         `yaml:"id" json:"id"`
	RootSeed       int64          `yaml:"root_seed" json:"root_seed"`
	DatasetVersion string         `yaml:"dataset_version,omitempty" json:"dataset_version,omitempty"`
	Brief          TravelerBrief  `yaml:"brief" json:"brief"`
	Budgets        Budgets        `yaml:"budgets,omitempty" json:"budgets,omitempty"`
	Weights        *models.Weights `yaml:"weights,omitempty" json:"weights,omitempty"`
	Stability      Stability      `yaml:"stability,omitempty" json:"stability,omitempty"`
}

// TravelerBrief captures the traveler's preferences and constraints.
type TravelerBrief struct {
	Destination       string       `yaml:"destination" json:"destination"`
	Origin            string       `yaml:"origin,omitempty" json:"origin,omitempty"`
	StartDate         string       `yaml:"start_date" json:"start_date"`
	EndDate           string       `yaml:"end_date" json:"end_date"`
	BudgetCeiling     float64      `yaml:"budget_ceiling" json:"budget_ceiling"`
	PartySize         int          `yaml:"party_size,omitempty" json:"party_size,omitempty"`
	PetFriendly       bool         `yaml:"pet_friendly,omitempty" json:"pet_friendly,omitempty"`
	Accessibility     []string     `yaml:"accessibility,omitempty" json:"accessibility,omitempty"`
	PreferredCuisines []string     `yaml:"preferred_cuisines,omitempty" json:"preferred_cuisines,omitempty"`
	RequiredAmenities []string     `yaml:"required_amenities,omitempty" json:"required_amenities,omitempty"`
	Constraints       []Constraint `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Constraint is a CEL expression evaluated against itinerary items or
// lodging choices by the feasibility and personalization validators.
// Expressions that fail to compile or evaluate become findings, never
// errors.
type Constraint struct {
	Code    string `yaml:"code" json:"code"`
	Expr    string `yaml:"expr" json:"expr"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Budgets bounds one run's resource usage.
type Budgets struct {
	MaxToolCalls        int `yaml:"max_tool_calls,omitempty" json:"max_tool_calls,omitempty"`
	TimeoutSec          int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	MaxActivitiesPerDay int `yaml:"max_activities_per_day,omitempty" json:"max_activities_per_day,omitempty"`
	TransferBufferMin   int `yaml:"transfer_buffer_minutes,omitempty" json:"transfer_buffer_minutes,omitempty"`
}

// Stability configures perturbation reruns.
type Stability struct {
	Runs      int     `yaml:"runs,omitempty" json:"runs,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Load reads, schema-validates, and defaults a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse validates raw scenario YAML and applies defaults.
func Parse(data []byte) (*Scenario, error) {
	if issues := validation.ValidateScenarioBytes(data); len(issues) > 0 {
		return nil, fmt.Errorf("scenario schema: %s: %s", issues[0].Path, issues[0].Message)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	sc.applyDefaults()

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) applyDefaults() {
	if s.DatasetVersion == "" {
		s.DatasetVersion = DefaultDatasetVersion
	}
	if s.Budgets.MaxToolCalls == 0 {
		s.Budgets.MaxToolCalls = DefaultMaxToolCalls
	}
	if s.Budgets.TimeoutSec == 0 {
		s.Budgets.TimeoutSec = DefaultTimeoutSec
	}
	if s.Budgets.MaxActivitiesPerDay == 0 {
		s.Budgets.MaxActivitiesPerDay = DefaultMaxActivitiesPerDay
	}
	if s.Budgets.TransferBufferMin == 0 {
		s.Budgets.TransferBufferMin = DefaultTransferBufferMin
	}
	if s.Stability.Runs == 0 {
		s.Stability.Runs = DefaultStabilityRuns
	}
	if s.Stability.Threshold == 0 {
		s.Stability.Threshold = DefaultStabilityThreshold
	}
	if s.Brief.PartySize == 0 {
		s.Brief.PartySize = 1
	}
}

// Validate checks invariants the schema cannot express.
func (s *Scenario) Validate() error {
	if s.RootSeed <= 0 {
		return fmt.Errorf("scenario %q: root_seed must be positive, got %d", s.ID, s.RootSeed)
	}
	if s.Brief.EndDate < s.Brief.StartDate {
		return fmt.Errorf("scenario %q: end_date %s precedes start_date %s", s.ID, s.Brief.EndDate, s.Brief.StartDate)
	}
	return nil
}

// EffectiveWeights returns the scenario's weight override, or the
// documented defaults.
func (s *Scenario) EffectiveWeights() models.Weights {
	if s.Weights != nil {
		return *s.Weights
	}
	return models.DefaultWeights()
}
