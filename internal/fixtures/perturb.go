package fixtures

import (
	"fmt"
	"math/rand"

	"github.com/agentbeats/veritrail/internal/models"
)

// Perturbation is a controlled, ground-truth-preserving variation of
// fixture data: small price jitter and stable re-ordering of rows.
// Attribute values other than prices never change, so per-item ground
// truth is equivalent across perturbed runs.
type Perturbation struct {
	Seed           int64
	PriceJitterPct float64
	Shuffle        bool
	Tag            string
}

// NewPerturbation returns the standard perturbation for one stability run.
func NewPerturbation(seed int64, index int) *Perturbation {
	return &Perturbation{
		Seed:           seed,
		PriceJitterPct: 2.0,
		Shuffle:        true,
		Tag:            fmt.Sprintf("p%d", index),
	}
}

// priceFields are the only attributes a perturbation may touch. The
// slice order is fixed so RNG draws land on the same field every run.
var priceFields = []string{"price", "price_per_night", "total_price"}

func (p *Perturbation) apply(result *models.FixtureResult) {
	if result.Table == nil {
		return
	}
	rng := rand.New(rand.NewSource(p.Seed))

	if p.PriceJitterPct > 0 {
		for _, row := range result.Table.Rows {
			for _, field := range priceFields {
				v, ok := row[field].(float64)
				if !ok {
					continue
				}
				jitter := (rng.Float64()*2 - 1) * p.PriceJitterPct / 100
				row[field] = round2(v * (1 + jitter))
			}
		}
	}

	if p.Shuffle && len(result.Table.Rows) > 1 {
		rng.Shuffle(len(result.Table.Rows), func(i, j int) {
			result.Table.Rows[i], result.Table.Rows[j] = result.Table.Rows[j], result.Table.Rows[i]
		})
	}
}
