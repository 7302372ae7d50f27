package validators

import (
	"math"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// costTolerance is the allowed absolute difference between the stated
// total and the recomputed one.
const costTolerance = 0.01

// Budget independently recomputes the trip cost from priced line items in
// the trace ledger and compares it against the submission's stated total.
// A mismatch is a finding, not an automatic failure.
type Budget struct{}

func (Budget) Category() string { return "budget" }

func (Budget) Evaluate(sub *models.Submission, records []models.ToolCallRecord, sc *scenario.Scenario) models.ValidatorReport {
	var findings []models.Finding

	recomputed := 0.0
	for _, f := range sub.Flights {
		row := ledgerRow(records, "flight_search", "flight_number", f.FlightNumber)
		if price, ok := rowFloat(row, "price"); ok {
			recomputed += price
		} else {
			// No ledger evidence; fall back to the stated price so one
			// unsupported item does not void the whole recomputation.
			recomputed += f.Price
		}
	}
	for _, l := range sub.Lodging {
		row := ledgerRow(records, "hotel_search", "property_name", l.PropertyName)
		if total, ok := rowFloat(row, "total_price"); ok {
			recomputed += total
		} else if l.TotalPrice > 0 {
			recomputed += l.TotalPrice
		} else {
			recomputed += l.PricePerNight
		}
	}
	recomputed = math.Round(recomputed*100) / 100

	score := 1.0
	diff := math.Abs(recomputed - sub.TotalCost)
	if diff > costTolerance {
		denom := math.Max(recomputed, 1)
		score = math.Max(0, 1-diff/denom)
		findings = append(findings, finding(models.CodeBudgetMismatch, models.SeverityError, "/total_cost",
			"stated total $%.2f differs from recomputed $%.2f by $%.2f", sub.TotalCost, recomputed, diff))
	}

	if ceiling := sc.Brief.BudgetCeiling; ceiling > 0 && sub.TotalCost > ceiling {
		findings = append(findings, finding(models.CodeBudgetMismatch, models.SeverityWarning, "/total_cost",
			"stated total $%.2f exceeds the budget ceiling $%.2f", sub.TotalCost, ceiling))
		score = math.Min(score, 0.75)
	}

	return models.ValidatorReport{
		Category: "budget",
		Score:    score,
		Findings: findings,
	}
}

func rowFloat(row map[string]any, key string) (float64, bool) {
	if row == nil {
		return 0, false
	}
	return asFloat(row[key])
}
