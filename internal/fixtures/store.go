// Package fixtures is the deterministic synthetic data source for the
// sandbox. Given (tool, arguments, seed) it always returns byte-identical
// results, generated in process memory with no I/O. It is the only data
// source a run may ever reach.
package fixtures

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"github.com/gowebpki/jcs"

	"github.com/agentbeats/veritrail/internal/models"
)

// UnknownToolError reports a fixture request for a tool the store does not
// model. The sandbox treats this as fatal.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Tool)
}

// Store resolves tool calls to synthetic domain data for one scenario.
// A store is immutable; perturbed variants are separate values so
// concurrent runs never share mutable state.
type Store struct {
	scenarioID string
	version    string
	perturb    *Perturbation
}

// NewStore returns a fixture store for a scenario and dataset version.
func NewStore(scenarioID, version string) *Store {
	return &Store{scenarioID: scenarioID, version: version}
}

// WithPerturbation returns a copy of the store that applies the given
// perturbation to every resolved fixture.
func (s *Store) WithPerturbation(p *Perturbation) *Store {
	clone := *s
	clone.perturb = p
	return &clone
}

// Resolve generates the fixture for one tool call. Identical
// (tool, arguments, seed) inputs always produce identical output.
func (s *Store) Resolve(tool string, args map[string]any, seed int64) (*models.FixtureResult, error) {
	rng := rand.New(rand.NewSource(mixSeed(seed, args)))

	var result *models.FixtureResult
	switch tool {
	case "flight_search":
		result = s.flights(rng, args)
	case "hotel_search":
		result = s.lodging(rng, args)
	case "restaurant_search":
		result = s.dining(rng, args)
	case "weather":
		result = s.weather(rng, args)
	case "route_lookup":
		result = s.routes(rng, args)
	default:
		return nil, &UnknownToolError{Tool: tool}
	}

	result.Metadata = models.FixtureMetadata{
		Seed:           seed,
		ScenarioID:     s.scenarioID,
		DatasetVersion: s.version,
	}

	if s.perturb != nil {
		s.perturb.apply(result)
		result.Metadata.Perturbation = s.perturb.Tag
	}
	return result, nil
}

// mixSeed folds a canonical digest of the arguments into the tool seed so
// that different queries draw from different, but stable, streams.
func mixSeed(seed int64, args map[string]any) int64 {
	raw, err := json.Marshal(args)
	if err != nil {
		return seed
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return seed
	}
	sum := sha256.Sum256(canonical)
	mixed := int64(binary.BigEndian.Uint64(sum[:8])&^(1<<63)) ^ seed
	if mixed <= 0 {
		mixed = -mixed + 1
	}
	return mixed
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// round2 keeps prices at whole cents so serialized output stays stable.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
