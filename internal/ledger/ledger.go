// Package ledger implements the append-only, content-addressed trace ledger
// for one evaluation run. The ledger assigns sequence numbers itself so the
// ordering stays gapless regardless of caller timing, and becomes immutable
// once sealed.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/agentbeats/veritrail/internal/models"
)

var (
	// ErrLedgerSealed is returned by Append after Seal.
	ErrLedgerSealed = errors.New("ledger is sealed")
	// ErrLedgerOpen is returned by Export before Seal.
	ErrLedgerOpen = errors.New("ledger is still open")
)

// Ledger is the single-writer trace ledger for one run. A per-run mutex
// serializes appends; runs never share a ledger.
type Ledger struct {
	mu      sync.Mutex
	runID   string
	sealed  bool
	records []models.ToolCallRecord
}

// New returns an open ledger for the given run.
func New(runID string) *Ledger {
	return &Ledger{runID: runID}
}

// RunID returns the owning run's identifier.
func (l *Ledger) RunID() string { return l.runID }

// Append stores a record and assigns its sequence number. The caller's Seq
// field is ignored; numbering starts at 1 and is gapless. Append is atomic:
// a record is either fully stored or not stored at all.
func (l *Ledger) Append(rec models.ToolCallRecord) (models.ToolCallRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sealed {
		return models.ToolCallRecord{}, fmt.Errorf("run %s: %w", l.runID, ErrLedgerSealed)
	}
	rec.Seq = len(l.records) + 1
	l.records = append(l.records, rec)
	return rec, nil
}

// Seal closes the ledger. Sealing twice is a no-op.
func (l *Ledger) Seal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sealed = true
}

// Sealed reports whether the ledger has been sealed.
func (l *Ledger) Sealed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sealed
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Export returns a copy of all records. Only sealed ledgers may be
// exported; scoring always works from a sealed, immutable view.
func (l *Ledger) Export() ([]models.ToolCallRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.sealed {
		return nil, fmt.Errorf("run %s: %w", l.runID, ErrLedgerOpen)
	}
	out := make([]models.ToolCallRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Verify checks the gapless-ordering invariant over the stored records.
// A violation means the ledger can no longer be trusted for scoring.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, rec := range l.records {
		if rec.Seq != i+1 {
			return fmt.Errorf("run %s: sequence gap at index %d (got %d)", l.runID, i, rec.Seq)
		}
	}
	return nil
}
