// Package seed derives the deterministic seed tree for a scenario run.
// One root seed fans out into per-tool fixture seeds and a distinct set of
// perturbation seeds; the same root and scenario always yield the same tree.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidRootSeed is returned for a zero or negative root seed. The run
// cannot start without a valid seed.
var ErrInvalidRootSeed = errors.New("root seed must be a positive integer")

// Manager derives sub-seeds from one root seed and a scenario identifier.
// All derivations are pure functions of the inputs.
type Manager struct {
	root     int64
	scenario string
}

// NewManager validates the root seed and returns a manager for the scenario.
func NewManager(root int64, scenarioID string) (*Manager, error) {
	if root <= 0 {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, ErrInvalidRootSeed)
	}
	return &Manager{root: root, scenario: scenarioID}, nil
}

// Root returns the root seed.
func (m *Manager) Root() int64 { return m.root }

// ToolSeed returns the fixture seed for one (tool, scenario) pair.
func (m *Manager) ToolSeed(tool string) int64 {
	return m.derive("tool", tool, 0)
}

// PerturbationSeed returns the seed for the i-th stability perturbation.
// Perturbation seeds are disjoint from tool seeds by construction.
func (m *Manager) PerturbationSeed(i int) int64 {
	return m.derive("perturbation", "", i)
}

// PerturbationSeeds returns n independent perturbation seeds.
func (m *Manager) PerturbationSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = m.PerturbationSeed(i)
	}
	return seeds
}

// derive hashes (root, scenario, kind, name, index) into a positive int64.
func (m *Manager) derive(kind, name string, index int) int64 {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%s\x00%s\x00%s\x00%d", m.root, m.scenario, kind, name, index)
	sum := h.Sum(nil)
	v := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if v == 0 {
		v = 1
	}
	return v
}
