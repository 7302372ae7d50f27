package validators

import (
	"fmt"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// rainProbabilityCutoff marks a forecast day unsuitable for outdoor
// activities.
const rainProbabilityCutoff = 60

// Feasibility rejects itinerary items contradicted by fixture-provided
// constraints: weather unsuitable for outdoor activities, sold-out
// lodging, and violated traveler-brief eligibility constraints.
type Feasibility struct{}

func (Feasibility) Category() string { return "feasibility" }

func (Feasibility) Evaluate(sub *models.Submission, records []models.ToolCallRecord, sc *scenario.Scenario) models.ValidatorReport {
	var findings []models.Finding
	checks, violations := 0, 0

	// Outdoor activities against the forecast the agent actually fetched.
	forecast := weatherByDay(records)
	for i, item := range sub.Itinerary {
		if !item.Outdoor {
			continue
		}
		day, ok := forecast[item.Day]
		if !ok {
			continue
		}
		checks++
		if prob, ok := asInt(day["precipitation_probability_max"]); ok && prob > rainProbabilityCutoff {
			violations++
			findings = append(findings, finding(models.CodeInfeasible, models.SeverityError,
				fmt.Sprintf("/itinerary/%d", i),
				"outdoor activity %q on %s with %d%% precipitation probability", item.Activity, item.Day, prob))
		}
	}

	// Sold-out lodging.
	for i, l := range sub.Lodging {
		row := ledgerRow(records, "hotel_search", "property_name", l.PropertyName)
		if row == nil {
			continue
		}
		checks++
		if soldOut, ok := row["sold_out"].(bool); ok && soldOut {
			violations++
			findings = append(findings, finding(models.CodeInfeasible, models.SeverityError,
				fmt.Sprintf("/lodging/%d", i),
				"lodging %q is marked sold out", l.PropertyName))
		}
	}

	// Brief eligibility constraints over itinerary items.
	compiled, compileFindings := compileConstraints(sc.Brief.Constraints)
	findings = append(findings, compileFindings...)
	brief := briefVars(sc.Brief)
	for _, c := range compiled {
		for i, item := range sub.Itinerary {
			checks++
			if !c.holds(itemVars(item), brief) {
				violations++
				msg := c.message
				if msg == "" {
					msg = "constraint " + c.code + " violated"
				}
				findings = append(findings, finding(models.CodeInfeasible, models.SeverityError,
					fmt.Sprintf("/itinerary/%d", i), "%s", msg))
			}
		}
	}

	return models.ValidatorReport{
		Category: "feasibility",
		Score:    scoreFromChecks(violations, checks),
		Findings: findings,
	}
}

// weatherByDay indexes the latest weather rows by date.
func weatherByDay(records []models.ToolCallRecord) map[string]map[string]any {
	byDay := make(map[string]map[string]any)
	for _, rec := range records {
		if rec.Tool != "weather" || rec.Result == nil || rec.Result.Table == nil {
			continue
		}
		for _, row := range rec.Result.Table.Rows {
			if date, ok := row["date"].(string); ok {
				byDay[date] = row
			}
		}
	}
	return byDay
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
