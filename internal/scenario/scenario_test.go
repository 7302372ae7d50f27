package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbeats/veritrail/internal/models"
)

const minimalScenario = `
id: paris-spring-trip
root_seed: 42
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
`

func TestParse_AppliesDefaults(t *testing.T) {
	sc, err := Parse([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "paris-spring-trip", sc.ID)
	assert.Equal(t, int64(42), sc.RootSeed)
	assert.Equal(t, DefaultDatasetVersion, sc.DatasetVersion)
	assert.Equal(t, DefaultMaxToolCalls, sc.Budgets.MaxToolCalls)
	assert.Equal(t, DefaultTimeoutSec, sc.Budgets.TimeoutSec)
	assert.Equal(t, DefaultMaxActivitiesPerDay, sc.Budgets.MaxActivitiesPerDay)
	assert.Equal(t, DefaultTransferBufferMin, sc.Budgets.TransferBufferMin)
	assert.Equal(t, DefaultStabilityRuns, sc.Stability.Runs)
	assert.Equal(t, DefaultStabilityThreshold, sc.Stability.Threshold)
	assert.Equal(t, 1, sc.Brief.PartySize)
	assert.Equal(t, models.DefaultWeights(), sc.EffectiveWeights())
}

func TestParse_ExplicitValuesWin(t *testing.T) {
	sc, err := Parse([]byte(`
id: paris-spring-trip
root_seed: 7
dataset_version: v2
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
  pet_friendly: true
  required_amenities: [wifi, parking]
budgets:
  max_tool_calls: 10
  timeout_seconds: 30
stability:
  runs: 3
  threshold: 0.1
weights:
  grounding: 0.5
  validators: 0.3
  ranking: 0.1
  schema: 0.1
`))
	require.NoError(t, err)

	assert.Equal(t, "v2", sc.DatasetVersion)
	assert.Equal(t, 10, sc.Budgets.MaxToolCalls)
	assert.Equal(t, 30, sc.Budgets.TimeoutSec)
	assert.Equal(t, 3, sc.Stability.Runs)
	assert.InDelta(t, 0.1, sc.Stability.Threshold, 1e-9)
	assert.True(t, sc.Brief.PetFriendly)
	assert.Equal(t, []string{"wifi", "parking"}, sc.Brief.RequiredAmenities)
	assert.InDelta(t, 0.5, sc.EffectiveWeights().Grounding, 1e-9)
}

func TestParse_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero seed", `
id: bad
root_seed: 0
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
`},
		{"missing brief", `
id: bad
root_seed: 42
`},
		{"dates reversed", `
id: bad
root_seed: 42
brief:
  destination: Paris
  start_date: "2026-05-15"
  end_date: "2026-05-10"
  budget_ceiling: 3000
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "paris-spring-trip", sc.ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParse_Constraints(t *testing.T) {
	sc, err := Parse([]byte(`
id: paris-spring-trip
root_seed: 42
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
  constraints:
    - code: no_late_starts
      expr: "!has(item.start_time) || item.start_time >= '09:00'"
      message: activities must not start before 09:00
`))
	require.NoError(t, err)
	require.Len(t, sc.Brief.Constraints, 1)
	assert.Equal(t, "no_late_starts", sc.Brief.Constraints[0].Code)
}
