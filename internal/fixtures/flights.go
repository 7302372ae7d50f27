package fixtures

import (
	"fmt"
	"math/rand"

	"github.com/agentbeats/veritrail/internal/models"
)

// airlines pairs carrier names with their two-letter flight number prefix.
var airlines = []struct {
	name string
	code string
}{
	{"Aurora Air", "AB"},
	{"Pacific Wing", "PW"},
	{"Meridian", "MD"},
	{"SkyBridge", "SB"},
	{"Northline", "NL"},
	{"TransGlobe", "TG"},
}

var flightColumns = []string{
	"flight_number", "airline", "from", "to", "depart_time", "arrive_time",
	"duration_min", "layovers", "price", "direction",
}

// flights models a one-way or round-trip flight search. Row shape follows
// the upstream flight feed: times as RFC 3339, duration in minutes, price
// in USD.
func (s *Store) flights(rng *rand.Rand, args map[string]any) *models.FixtureResult {
	from := stringArg(args, "from", "SFO")
	to := stringArg(args, "to", "CDG")
	departDate := stringArg(args, "depart_date", "2026-06-01")
	returnDate := stringArg(args, "return_date", "")

	rows := flightLeg(rng, from, to, departDate, "outbound")
	if returnDate != "" {
		rows = append(rows, flightLeg(rng, to, from, returnDate, "return")...)
	}

	return &models.FixtureResult{
		Format: models.FormatTable,
		Table:  &models.Table{Columns: flightColumns, Rows: rows},
	}
}

func flightLeg(rng *rand.Rand, from, to, date, direction string) []map[string]any {
	n := 4 + rng.Intn(4)
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		carrier := airlines[rng.Intn(len(airlines))]
		departHour := 6 + rng.Intn(14)
		departMin := 5 * rng.Intn(12)
		durationMin := 300 + rng.Intn(280)
		layovers := rng.Intn(3)
		price := round2(150 + rng.Float64()*450 + float64(layovers)*-30)
		if price < 90 {
			price = 90
		}

		arriveTotal := departHour*60 + departMin + durationMin
		rows = append(rows, map[string]any{
			"flight_number": fmt.Sprintf("%s%d", carrier.code, 100+rng.Intn(900)),
			"airline":       carrier.name,
			"from":          from,
			"to":            to,
			"depart_time":   fmt.Sprintf("%sT%02d:%02d:00Z", date, departHour, departMin),
			"arrive_time":   fmt.Sprintf("%sT%02d:%02d:00Z", date, (arriveTotal/60)%24, arriveTotal%60),
			"duration_min":  durationMin,
			"layovers":      layovers,
			"price":         price,
			"direction":     direction,
		})
	}
	return rows
}
