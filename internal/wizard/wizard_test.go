package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbeats/veritrail/internal/scenario"
)

func TestGenerateScenarioYAML_BasicSpec(t *testing.T) {
	spec := &ScenarioSpec{
		ID:            "paris-spring-trip",
		Destination:   "Paris",
		StartDate:     "2026-05-10",
		EndDate:       "2026-05-15",
		BudgetCeiling: 3000,
		RootSeed:      42,
		Amenities:     []string{"wifi", "parking"},
		Cuisines:      []string{"french"},
		PetFriendly:   true,
	}

	result, err := GenerateScenarioYAML(spec)
	require.NoError(t, err)

	assert.Contains(t, result, "id: paris-spring-trip")
	assert.Contains(t, result, "root_seed: 42")
	assert.Contains(t, result, "destination: Paris")
	assert.Contains(t, result, `start_date: "2026-05-10"`)
	assert.Contains(t, result, "budget_ceiling: 3000")
	assert.Contains(t, result, "pet_friendly: true")
	assert.Contains(t, result, "- wifi")
	assert.Contains(t, result, "- parking")
	assert.Contains(t, result, "- french")
}

func TestGenerateScenarioYAML_OmitsEmptySections(t *testing.T) {
	spec := &ScenarioSpec{
		ID:            "minimal",
		Destination:   "Rome",
		StartDate:     "2026-06-01",
		EndDate:       "2026-06-04",
		BudgetCeiling: 1500,
		RootSeed:      7,
	}

	result, err := GenerateScenarioYAML(spec)
	require.NoError(t, err)

	assert.NotContains(t, result, "pet_friendly")
	assert.NotContains(t, result, "required_amenities")
	assert.NotContains(t, result, "preferred_cuisines")
}

func TestGenerateScenarioYAML_ParsesBack(t *testing.T) {
	spec := &ScenarioSpec{
		ID:            "roundtrip-check",
		Destination:   "Lisbon",
		StartDate:     "2026-09-03",
		EndDate:       "2026-09-08",
		BudgetCeiling: 2200,
		RootSeed:      99,
		Amenities:     []string{"pool"},
	}

	result, err := GenerateScenarioYAML(spec)
	require.NoError(t, err)

	sc, err := scenario.Parse([]byte(result))
	require.NoError(t, err)
	assert.Equal(t, "roundtrip-check", sc.ID)
	assert.Equal(t, int64(99), sc.RootSeed)
	assert.Equal(t, "Lisbon", sc.Brief.Destination)
	assert.Equal(t, []string{"pool"}, sc.Brief.RequiredAmenities)
}

func TestValidators(t *testing.T) {
	t.Run("date", func(t *testing.T) {
		require.NoError(t, validDate("2026-05-10"))
		require.Error(t, validDate("05/10/2026"))
	})
	t.Run("positive number", func(t *testing.T) {
		require.NoError(t, positiveNumber("3000"))
		require.Error(t, positiveNumber("-5"))
		require.Error(t, positiveNumber("abc"))
	})
	t.Run("positive integer", func(t *testing.T) {
		require.NoError(t, positiveInteger("42"))
		require.Error(t, positiveInteger("0"))
	})
	t.Run("split and trim", func(t *testing.T) {
		assert.Equal(t, []string{"wifi", "parking"}, splitAndTrim(" wifi , parking "))
		assert.Nil(t, splitAndTrim(""))
	})
}
