// Package submission validates the task agent's final structured answer
// and extracts atomic claims from it. Schema failures never abort scoring:
// unparseable sections are zeroed so the rest still earns partial credit.
package submission

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/validation"
)

// Result is the outcome of validating one submission.
type Result struct {
	Valid      bool
	Issues     []models.SchemaIssue
	Submission *models.Submission
}

// Validate schema-checks raw submission JSON and produces a best-effort
// typed view. A section that fails to decode is dropped (and reported),
// not fatal.
func Validate(raw []byte) *Result {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &Result{
			Valid:      false,
			Issues:     []models.SchemaIssue{{Path: "/", Message: fmt.Sprintf("JSON parse error: %v", err)}},
			Submission: &models.Submission{},
		}
	}

	issues := validation.ValidateSubmission(doc)
	sub := &models.Submission{}

	decodeSection(doc, "flights", &sub.Flights, &issues)
	decodeSection(doc, "lodging", &sub.Lodging, &issues)
	decodeSection(doc, "dining", &sub.Dining, &issues)
	decodeSection(doc, "itinerary", &sub.Itinerary, &issues)

	if v, ok := doc["total_cost"].(float64); ok {
		sub.TotalCost = v
	}
	if v, ok := doc["rationale"].(string); ok {
		sub.Rationale = v
	}

	return &Result{Valid: len(issues) == 0, Issues: issues, Submission: sub}
}

// decodeSection decodes one top-level field into its typed slice. Decode
// failures zero the section and record an issue so scoring treats it as
// zero-grounding rather than aborting.
func decodeSection[T any](doc map[string]any, field string, out *[]T, issues *[]models.SchemaIssue) {
	raw, ok := doc[field]
	if !ok {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err == nil {
		err = dec.Decode(raw)
	}
	if err != nil {
		*out = nil
		*issues = append(*issues, models.SchemaIssue{
			Path:    "/" + field,
			Message: fmt.Sprintf("section dropped: %v", err),
		})
	}
}
