package artifact

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/runner"
)

// ErrRunNotFound is returned when the store holds no run with that ID.
var ErrRunNotFound = errors.New("run not found")

// Store persists run outcomes in a local sqlite database so batch
// results can be listed and re-exported later.
type Store struct {
	db *sql.DB
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	scenario_id TEXT NOT NULL,
	root_seed   INTEGER NOT NULL,
	total       REAL NOT NULL,
	created_at  TEXT NOT NULL,
	report      BLOB NOT NULL,
	ledger      BLOB NOT NULL,
	submission  BLOB
);
CREATE INDEX IF NOT EXISTS runs_scenario ON runs(scenario_id, created_at);
`

// OpenStore opens (and if needed initializes) the run database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing run store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists one outcome. Saving the same run ID twice is an error;
// reports are immutable once published.
func (s *Store) Save(ctx context.Context, out *runner.Outcome) error {
	reportJSON, err := CanonicalReport(out.Report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	ledgerJSON, err := CanonicalJSON(out.Records)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, scenario_id, root_seed, total, created_at, report, ledger, submission)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		out.RunID, out.Report.ScenarioID, out.Report.RootSeed, out.Report.Total,
		out.Report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		reportJSON, ledgerJSON, out.Submission)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", out.RunID, err)
	}
	return nil
}

// Get loads one stored outcome by run ID.
func (s *Store) Get(ctx context.Context, runID string) (*runner.Outcome, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT report, ledger, submission FROM runs WHERE run_id = ?`, runID)

	var reportJSON, ledgerJSON, submission []byte
	if err := row.Scan(&reportJSON, &ledgerJSON, &submission); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	out := &runner.Outcome{RunID: runID, Submission: submission}
	out.Report = &models.ScoreReport{}
	if err := json.Unmarshal(reportJSON, out.Report); err != nil {
		return nil, fmt.Errorf("decoding report for %s: %w", runID, err)
	}
	if err := json.Unmarshal(ledgerJSON, &out.Records); err != nil {
		return nil, fmt.Errorf("decoding ledger for %s: %w", runID, err)
	}
	return out, nil
}

// RunSummary is one row of a run listing.
type RunSummary struct {
	RunID      string
	ScenarioID string
	RootSeed   int64
	Total      float64
	CreatedAt  time.Time
}

// List returns stored runs for a scenario, newest first. An empty
// scenario ID lists everything.
func (s *Store) List(ctx context.Context, scenarioID string) ([]RunSummary, error) {
	query := `SELECT run_id, scenario_id, root_seed, total, created_at FROM runs`
	args := []any{}
	if scenarioID != "" {
		query += ` WHERE scenario_id = ?`
		args = append(args, scenarioID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		if err := rows.Scan(&r.RunID, &r.ScenarioID, &r.RootSeed, &r.Total, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
