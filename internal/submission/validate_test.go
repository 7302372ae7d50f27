package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbeats/veritrail/internal/models"
)

const validSubmission = `{
	"flights": [
		{"flight_number": "AB123", "airline": "Aurora Air", "from": "JFK", "to": "CDG", "price": 219}
	],
	"lodging": [
		{"property_name": "Hotel Lumen", "rating": 4.2, "price_per_night": 140, "total_price": 560}
	],
	"dining": [
		{"name": "Chez Margaux", "rating": 4.5, "price_level": "$$"}
	],
	"itinerary": [
		{"day": "2026-05-10", "activity": "Louvre visit", "start_time": "10:00", "end_time": "12:30", "outdoor": false}
	],
	"total_cost": 1450,
	"rationale": "Chose the cheapest direct flight."
}`

func TestValidate_Valid(t *testing.T) {
	res := Validate([]byte(validSubmission))
	require.True(t, res.Valid)
	assert.Empty(t, res.Issues)

	require.Len(t, res.Submission.Flights, 1)
	assert.Equal(t, "AB123", res.Submission.Flights[0].FlightNumber)
	assert.InDelta(t, 219, res.Submission.Flights[0].Price, 1e-9)
	require.Len(t, res.Submission.Lodging, 1)
	assert.Equal(t, "Hotel Lumen", res.Submission.Lodging[0].PropertyName)
	require.Len(t, res.Submission.Itinerary, 1)
	assert.Equal(t, "10:00", res.Submission.Itinerary[0].StartTime)
	assert.InDelta(t, 1450, res.Submission.TotalCost, 1e-9)
	assert.NotEmpty(t, res.Submission.Rationale)
}

func TestValidate_MalformedJSON(t *testing.T) {
	res := Validate([]byte(`{"flights": [`))
	require.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "/", res.Issues[0].Path)
	assert.NotNil(t, res.Submission)
}

func TestValidate_SchemaViolationsKeepPartialCredit(t *testing.T) {
	res := Validate([]byte(`{
		"flights": [
			{"flight_number": "AB123", "airline": "Aurora Air", "from": "jfk", "to": "CDG", "price": 219}
		],
		"lodging": [
			{"property_name": "Hotel Lumen", "price_per_night": 140}
		],
		"dining": [],
		"itinerary": [],
		"total_cost": 1450
	}`))

	require.False(t, res.Valid)
	assert.NotEmpty(t, res.Issues)
	// Sections that decode still populate the typed view.
	assert.Len(t, res.Submission.Flights, 1)
	assert.Len(t, res.Submission.Lodging, 1)
}

func TestExtractClaims_Schema(t *testing.T) {
	sub := &models.Submission{
		Flights: []models.FlightChoice{
			{FlightNumber: "AB123", Airline: "Aurora Air", From: "JFK", To: "CDG", Price: 219},
		},
		Lodging: []models.LodgingChoice{
			{PropertyName: "Hotel Lumen", PricePerNight: 140, TotalPrice: 560, Rating: 4.2},
		},
		Dining: []models.DiningChoice{
			{Name: "Chez Margaux", Rating: 4.5},
		},
		Rationale: "The flight costs $999 and the hotel is free.",
	}

	claims := ExtractClaims(sub)

	byPath := map[string]models.Claim{}
	for _, c := range claims {
		byPath[c.FieldPath] = c
	}

	require.Len(t, claims, 8)
	assert.Equal(t, 219.0, byPath["/flights/0/price"].Value)
	assert.Equal(t, "Aurora Air", byPath["/flights/0/airline"].Value)
	assert.Equal(t, "JFK-CDG", byPath["/flights/0/from"].Value)
	assert.Equal(t, 140.0, byPath["/lodging/0/price_per_night"].Value)
	assert.Equal(t, 560.0, byPath["/lodging/0/total_price"].Value)
	assert.Equal(t, 4.2, byPath["/lodging/0/rating"].Value)
	assert.Equal(t, "Chez Margaux", byPath["/dining/0/name"].Value)
	assert.Equal(t, 4.5, byPath["/dining/0/rating"].Value)
}

func TestExtractClaims_IgnoresRationale(t *testing.T) {
	sub := &models.Submission{
		Rationale: "Flight XY999 costs $50 and every hotel is five stars.",
	}
	assert.Empty(t, ExtractClaims(sub), "free text never produces claims")
}

func TestExtractClaims_SkipsOptionalZeroValues(t *testing.T) {
	sub := &models.Submission{
		Lodging: []models.LodgingChoice{{PropertyName: "Hotel Lumen", PricePerNight: 140}},
		Dining:  []models.DiningChoice{{Name: "Chez Margaux"}},
	}

	claims := ExtractClaims(sub)
	require.Len(t, claims, 2)
	assert.Equal(t, "price_per_night", claims[0].Attribute)
	assert.Equal(t, "name", claims[1].Attribute)
}
