package fixtures

import (
	"math/rand"
	"time"

	"github.com/agentbeats/veritrail/internal/models"
)

var weatherColumns = []string{
	"date", "temperature_max", "temperature_min", "precipitation_sum",
	"precipitation_probability_max", "sunrise", "sunset",
}

// weather models a daily forecast lookup. One row per day in the requested
// range, fields matching the upstream forecast feed. Days with a high
// precipitation probability make outdoor itinerary items infeasible.
func (s *Store) weather(rng *rand.Rand, args map[string]any) *models.FixtureResult {
	location := stringArg(args, "location", "Paris")
	startDate := stringArg(args, "start_date", "2026-06-01")
	endDate := stringArg(args, "end_date", startDate)

	start, err1 := time.Parse("2006-01-02", startDate)
	end, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return &models.FixtureResult{
			Format: models.FormatRecord,
			Record: map[string]any{"error": "invalid date range", "location": location},
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > 14 {
		days = 14
	}

	rows := make([]map[string]any, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		tmax := 14 + rng.Float64()*16
		precipProb := rng.Intn(101)
		precip := 0.0
		if precipProb > 50 {
			precip = round2(rng.Float64() * 20)
		}
		rows = append(rows, map[string]any{
			"date":                          day.Format("2006-01-02"),
			"temperature_max":               round2(tmax),
			"temperature_min":               round2(tmax - 4 - rng.Float64()*6),
			"precipitation_sum":             precip,
			"precipitation_probability_max": precipProb,
			"sunrise":                       day.Format("2006-01-02") + "T05:52",
			"sunset":                        day.Format("2006-01-02") + "T21:14",
		})
	}

	return &models.FixtureResult{
		Format: models.FormatTable,
		Table:  &models.Table{Columns: weatherColumns, Rows: rows},
	}
}
