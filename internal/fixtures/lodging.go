package fixtures

import (
	"math"
	"math/rand"
	"time"

	"github.com/agentbeats/veritrail/internal/models"
)

var propertyNames = []string{
	"The Lantern House", "Harborview Suites", "Casa Verde", "Maple & Main Inn",
	"The Observatory Hotel", "Riverstone Lodge", "Hotel Meridien Park",
	"The Wren", "Golden Gate Residences", "Villa Aurelia",
}

var amenityPool = []string{
	"wifi", "breakfast", "pool", "gym", "spa", "parking",
	"wheelchair_accessible", "kitchen", "laundry", "airport_shuttle",
}

var lodgingColumns = []string{
	"property_name", "rating", "price_per_night", "total_price", "currency",
	"location", "lat", "lon", "amenities", "pet_friendly",
	"cancellation_policy", "sold_out", "check_in", "check_out", "city",
}

// lodging models a hotel search. Row shape follows the upstream hotel
// feed: nightly and total prices in USD, rating on a 5-point scale, and a
// sold_out flag the feasibility validator checks.
func (s *Store) lodging(rng *rand.Rand, args map[string]any) *models.FixtureResult {
	city := stringArg(args, "city", "Paris")
	checkIn := stringArg(args, "check_in", "2026-06-01")
	checkOut := stringArg(args, "check_out", "2026-06-04")
	nights := nightsBetween(checkIn, checkOut)

	center := cityCoords(city)
	n := 5 + rng.Intn(3)
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		name := propertyNames[rng.Intn(len(propertyNames))]
		rating := float64(30+rng.Intn(21)) / 10
		nightly := round2(70 + rng.Float64()*230)

		amenities := make([]string, 0, 4)
		for _, a := range amenityPool {
			if rng.Float64() < 0.4 {
				amenities = append(amenities, a)
			}
		}

		policy := "free_cancellation_48h"
		if rng.Float64() < 0.3 {
			policy = "non_refundable"
		}

		rows = append(rows, map[string]any{
			"property_name":       name,
			"rating":              rating,
			"price_per_night":     nightly,
			"total_price":         round2(nightly * float64(nights)),
			"currency":            "USD",
			"location":            city + " city center",
			"lat":                 round5(center.lat + (rng.Float64()-0.5)*0.08),
			"lon":                 round5(center.lon + (rng.Float64()-0.5)*0.08),
			"amenities":           amenities,
			"pet_friendly":        rng.Float64() < 0.5,
			"cancellation_policy": policy,
			"sold_out":            rng.Float64() < 0.15,
			"check_in":            checkIn,
			"check_out":           checkOut,
			"city":                city,
		})
	}

	return &models.FixtureResult{
		Format: models.FormatTable,
		Table:  &models.Table{Columns: lodgingColumns, Rows: rows},
	}
}

func nightsBetween(checkIn, checkOut string) int {
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

func round5(v float64) float64 {
	return math.Round(v*100000) / 100000
}
