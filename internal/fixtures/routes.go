package fixtures

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/agentbeats/veritrail/internal/models"
)

// routes models a point-to-point route lookup: total distance and
// duration plus turn-by-turn steps, matching the upstream maps feed.
func (s *Store) routes(rng *rand.Rand, args map[string]any) *models.FixtureResult {
	origin := stringArg(args, "origin", "Paris")
	destination := stringArg(args, "destination", "Paris")
	mode := stringArg(args, "mode", "driving")

	from := cityCoords(origin)
	to := cityCoords(destination)
	distanceKm := HaversineKm(from.lat, from.lon, to.lat, to.lon)
	if distanceKm < 1 {
		// Same-city lookup: synthesize a short urban hop.
		distanceKm = 1 + rng.Float64()*14
	}

	speedKmh := 45.0
	switch mode {
	case "walking":
		speedKmh = 4.5
	case "transit":
		speedKmh = 28
	}
	durationMin := int(distanceKm / speedKmh * 60)
	if durationMin < 1 {
		durationMin = 1
	}

	nSteps := 2 + rng.Intn(4)
	steps := make([]map[string]any, 0, nSteps)
	remaining := distanceKm
	for i := 0; i < nSteps; i++ {
		share := remaining / float64(nSteps-i)
		steps = append(steps, map[string]any{
			"instruction": fmt.Sprintf("Continue on segment %d toward %s", i+1, destination),
			"distance":    round2(share),
			"duration":    int(share / speedKmh * 60),
		})
		remaining -= share
	}

	return &models.FixtureResult{
		Format: models.FormatRecord,
		Record: map[string]any{
			"origin":                  origin,
			"destination":             destination,
			"mode":                    mode,
			"distance":                round2(distanceKm),
			"duration":                durationMin,
			"duration_in_traffic_min": durationMin + rng.Intn(durationMin/4+1),
			"steps":                   steps,
		},
	}
}

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
