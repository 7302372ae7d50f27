package fixtures

import (
	"fmt"
	"math/rand"

	"github.com/agentbeats/veritrail/internal/models"
)

var restaurantNames = []string{
	"Chez Amelie", "The Brass Fork", "Osteria Lume", "Saffron & Sage",
	"Harbor Oyster Bar", "La Petite Ruche", "Ember Grill", "Noodle Atlas",
	"The Garden Table", "Cafe Solstice",
}

var cuisinePool = []string{
	"french", "italian", "japanese", "seafood", "vegetarian",
	"mediterranean", "korean", "mexican",
}

var diningColumns = []string{
	"name", "rating", "price_level", "address", "city", "phone",
	"highlights", "lat", "lon", "open_now",
}

// dining models a restaurant search. Row shape follows the upstream
// business feed: rating on a 5-point scale, price level as $..$$$$.
func (s *Store) dining(rng *rand.Rand, args map[string]any) *models.FixtureResult {
	city := stringArg(args, "city", "Paris")
	cuisine := stringArg(args, "cuisine", "")

	center := cityCoords(city)
	n := 4 + rng.Intn(3)
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		highlights := []string{cuisinePool[rng.Intn(len(cuisinePool))]}
		if cuisine != "" && rng.Float64() < 0.7 {
			highlights[0] = cuisine
		}
		if rng.Float64() < 0.4 {
			highlights = append(highlights, cuisinePool[rng.Intn(len(cuisinePool))])
		}

		rows = append(rows, map[string]any{
			"name":        restaurantNames[rng.Intn(len(restaurantNames))],
			"rating":      float64(35+rng.Intn(15)) / 10,
			"price_level": priceLevels[rng.Intn(len(priceLevels))],
			"address":     fmt.Sprintf("%d Rue du Marche, %s", 1+rng.Intn(200), city),
			"city":        city,
			"phone":       fmt.Sprintf("+1-555-%04d", rng.Intn(10000)),
			"highlights":  highlights,
			"lat":         round5(center.lat + (rng.Float64()-0.5)*0.06),
			"lon":         round5(center.lon + (rng.Float64()-0.5)*0.06),
			"open_now":    rng.Float64() < 0.8,
		})
	}

	return &models.FixtureResult{
		Format: models.FormatTable,
		Table:  &models.Table{Columns: diningColumns, Rows: rows},
	}
}

var priceLevels = []string{"$", "$$", "$$$", "$$$$"}
