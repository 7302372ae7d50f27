package models

import "time"

// ToolCallRecord is one entry in a run's trace ledger. Records are created
// by the sandbox runner; sequence numbers are assigned by the ledger itself
// on append and are strictly increasing with no gaps.
type ToolCallRecord struct {
	Seq        int            `json:"seq"`
	Tool       string         `json:"tool"`
	Arguments  map[string]any `json:"arguments"`
	Result     *FixtureResult `json:"result"`
	ResultHash string         `json:"result_hash"`
	Timestamp  time.Time      `json:"timestamp"`
	SubSeed    int64          `json:"sub_seed"`
}

// FixtureFormat tags the shape of a fixture payload so validators can
// pattern-match without reflection.
type FixtureFormat string

const (
	FormatTable  FixtureFormat = "table"
	FormatRecord FixtureFormat = "record"
	FormatScalar FixtureFormat = "scalar"
)

// FixtureResult is the tagged variant returned by the fixture store.
// Exactly one of Table, Record, or Scalar is set, matching Format.
type FixtureResult struct {
	Format   FixtureFormat   `json:"format"`
	Table    *Table          `json:"table,omitempty"`
	Record   map[string]any  `json:"record,omitempty"`
	Scalar   any             `json:"scalar,omitempty"`
	Metadata FixtureMetadata `json:"metadata"`
}

// Table is a typed tabular fixture payload. Columns fixes the field order
// so serialization is deterministic.
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// FixtureMetadata describes how a fixture payload was produced.
type FixtureMetadata struct {
	Seed           int64  `json:"seed"`
	ScenarioID     string `json:"scenario_id"`
	DatasetVersion string `json:"dataset_version"`
	Perturbation   string `json:"perturbation,omitempty"`
}
