// Package validators holds the independent domain validators. Each one is
// a pure function of (submission, sealed ledger, scenario) returning a
// 0-1 category score plus findings. Validators never return errors: every
// failure mode they can produce is a typed finding in their report.
package validators

import (
	"fmt"
	"math"
	"strings"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// Validator is the shared capability all domain validators implement.
// Validators are registered explicitly at orchestrator construction time
// and are callable in any order.
type Validator interface {
	Category() string
	Evaluate(sub *models.Submission, records []models.ToolCallRecord, sc *scenario.Scenario) models.ValidatorReport
}

// Default returns the standard validator set.
func Default() []Validator {
	return []Validator{
		Feasibility{},
		Timing{},
		GeoLogistics{},
		Personalization{},
		Budget{},
	}
}

// scoreFromChecks converts violation counts into a category score. With no
// checks performed the category is vacuously satisfied.
func scoreFromChecks(violations, checks int) float64 {
	if checks == 0 {
		return 1
	}
	return math.Max(0, 1-float64(violations)/float64(checks))
}

// ledgerRow finds the most recent ledger row for an entity in a tool's
// tabular results, keyed by an identifier column.
func ledgerRow(records []models.ToolCallRecord, tool, idColumn, id string) map[string]any {
	var found map[string]any
	for _, rec := range records {
		if rec.Tool != tool || rec.Result == nil || rec.Result.Table == nil {
			continue
		}
		for _, row := range rec.Result.Table.Rows {
			if v, ok := row[idColumn].(string); ok && strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(id)) {
				found = row
			}
		}
	}
	return found
}

func finding(code string, sev models.Severity, path string, format string, args ...any) models.Finding {
	return models.Finding{
		Code:     code,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
	}
}
