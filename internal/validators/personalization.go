package validators

import (
	"fmt"
	"strings"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// Personalization compares submission choices against the traveler brief:
// pet policy, required amenities, accessibility needs, and cuisine
// preferences. Mismatches reduce the score; they are never fatal.
type Personalization struct{}

func (Personalization) Category() string { return "personalization" }

func (Personalization) Evaluate(sub *models.Submission, records []models.ToolCallRecord, sc *scenario.Scenario) models.ValidatorReport {
	var findings []models.Finding
	checks, violations := 0, 0
	brief := sc.Brief

	for i, l := range sub.Lodging {
		row := ledgerRow(records, "hotel_search", "property_name", l.PropertyName)
		if row == nil {
			continue
		}
		path := fmt.Sprintf("/lodging/%d", i)

		if brief.PetFriendly {
			checks++
			if pf, ok := row["pet_friendly"].(bool); ok && !pf {
				violations++
				findings = append(findings, finding(models.CodePersonalizationMismatch, models.SeverityError, path,
					"lodging %q is not pet friendly but the traveler brings a pet", l.PropertyName))
			}
		}

		amenities := stringSlice(row["amenities"])
		for _, want := range brief.RequiredAmenities {
			checks++
			if !containsFold(amenities, want) {
				violations++
				findings = append(findings, finding(models.CodePersonalizationMismatch, models.SeverityWarning, path,
					"lodging %q lacks required amenity %q", l.PropertyName, want))
			}
		}
		for _, need := range brief.Accessibility {
			checks++
			if !containsFold(amenities, need) {
				violations++
				findings = append(findings, finding(models.CodePersonalizationMismatch, models.SeverityError, path,
					"lodging %q does not meet accessibility need %q", l.PropertyName, need))
			}
		}
	}

	if len(brief.PreferredCuisines) > 0 {
		for i, d := range sub.Dining {
			row := ledgerRow(records, "restaurant_search", "name", d.Name)
			if row == nil {
				continue
			}
			checks++
			highlights := stringSlice(row["highlights"])
			matched := false
			for _, want := range brief.PreferredCuisines {
				if containsFold(highlights, want) {
					matched = true
					break
				}
			}
			if !matched {
				violations++
				findings = append(findings, finding(models.CodePersonalizationMismatch, models.SeverityInfo,
					fmt.Sprintf("/dining/%d", i),
					"restaurant %q matches none of the preferred cuisines %v", d.Name, brief.PreferredCuisines))
			}
		}
	}

	return models.ValidatorReport{
		Category: "personalization",
		Score:    scoreFromChecks(violations, checks),
		Findings: findings,
	}
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}
