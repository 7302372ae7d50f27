package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmissionDoc(t *testing.T) map[string]any {
	t.Helper()
	raw := `{
		"flights": [
			{"flight_number": "AB123", "airline": "Aurora Air", "from": "JFK", "to": "CDG", "price": 219}
		],
		"lodging": [
			{"property_name": "Hotel Lumen", "price_per_night": 140, "total_price": 560}
		],
		"dining": [
			{"name": "Chez Margaux", "rating": 4.5, "price_level": "$$"}
		],
		"itinerary": [
			{"day": "2026-05-10", "activity": "Louvre visit", "start_time": "10:00", "end_time": "12:30"}
		],
		"total_cost": 1450
	}`
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateSubmission_Valid(t *testing.T) {
	issues := ValidateSubmission(validSubmissionDoc(t))
	assert.Empty(t, issues)
}

func TestValidateSubmission_ReportsPaths(t *testing.T) {
	doc := validSubmissionDoc(t)
	flights := doc["flights"].([]any)
	flight := flights[0].(map[string]any)
	flight["from"] = "jfk"
	flight["price"] = -5.0

	issues := ValidateSubmission(doc)
	require.NotEmpty(t, issues)

	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.Path)
	}
	assert.Contains(t, paths, "/flights/0/from")
	assert.Contains(t, paths, "/flights/0/price")
}

func TestValidateSubmission_MissingSection(t *testing.T) {
	doc := validSubmissionDoc(t)
	delete(doc, "itinerary")

	issues := ValidateSubmission(doc)
	require.NotEmpty(t, issues)
}

func TestValidateToolArgs(t *testing.T) {
	t.Run("valid flight search", func(t *testing.T) {
		issues, known := ValidateToolArgs("flight_search", map[string]any{
			"from": "JFK", "to": "CDG", "depart_date": "2026-05-10",
		})
		assert.True(t, known)
		assert.Empty(t, issues)
	})

	t.Run("unexpected argument rejected", func(t *testing.T) {
		issues, known := ValidateToolArgs("flight_search", map[string]any{
			"from": "JFK", "to": "CDG", "depart_date": "2026-05-10", "endpoint": "primary",
		})
		assert.True(t, known)
		assert.NotEmpty(t, issues)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, known := ValidateToolArgs("book_flight", map[string]any{})
		assert.False(t, known)
	})
}

func TestKnownTools(t *testing.T) {
	tools := KnownTools()
	assert.ElementsMatch(t, []string{
		"flight_search", "hotel_search", "restaurant_search", "weather", "route_lookup",
	}, tools)
}

func TestValidateScenarioBytes(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		issues := ValidateScenarioBytes([]byte(`
id: paris-spring-trip
root_seed: 42
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
`))
		assert.Empty(t, issues)
	})

	t.Run("bad seed", func(t *testing.T) {
		issues := ValidateScenarioBytes([]byte(`
id: paris-spring-trip
root_seed: 0
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
`))
		assert.NotEmpty(t, issues)
	})

	t.Run("yaml parse error", func(t *testing.T) {
		issues := ValidateScenarioBytes([]byte("id: [unclosed"))
		require.Len(t, issues, 1)
		assert.Equal(t, "/", issues[0].Path)
	})
}
