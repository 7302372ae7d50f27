// Package grounding verifies that every claim in a submission is backed by
// evidence in the sealed trace ledger.
package grounding

import (
	"math"
	"strings"

	"github.com/agentbeats/veritrail/internal/models"
)

// contradictionPenalty weighs contradicted claims heavier than unsupported
// ones in the category score: contradictions indicate fabrication where
// unsupported claims may only indicate omission.
const contradictionPenalty = 0.5

// priceRelTolerance is the relative slack for numeric comparisons. It
// covers the non-semantic price jitter perturbations may introduce; a
// difference beyond it is a contradiction, not noise.
const priceRelTolerance = 0.025

type evidence struct {
	seq   int
	value any
}

type entityKey struct {
	kind models.EntityKind
	id   string
	attr string
}

// Check matches claims against the sealed ledger records and aggregates
// the grounding score. When multiple records carry evidence for the same
// entity/attribute pair, the most recent record by sequence number wins:
// the agent should have used the latest lookup.
func Check(claims []models.Claim, records []models.ToolCallRecord) models.GroundingSummary {
	index := buildIndex(records)

	summary := models.GroundingSummary{Results: make([]models.GroundingResult, 0, len(claims))}
	for _, claim := range claims {
		result := matchClaim(claim, index)
		switch result.Status {
		case models.Grounded:
			summary.Grounded++
		case models.Contradicted:
			summary.Contradicted++
		case models.Unsupported:
			summary.Unsupported++
		}
		summary.Results = append(summary.Results, result)
	}

	if total := len(claims); total > 0 {
		raw := (float64(summary.Grounded) - contradictionPenalty*float64(summary.Contradicted)) / float64(total)
		summary.Score = math.Max(0, math.Min(1, raw))
	} else {
		// Nothing claimed, nothing fabricated.
		summary.Score = 1
	}
	return summary
}

func matchClaim(claim models.Claim, index map[entityKey]evidence) models.GroundingResult {
	key := entityKey{kind: claim.Entity, id: normalizeID(claim.EntityID), attr: claim.Attribute}
	ev, ok := index[key]
	if !ok {
		return models.GroundingResult{Claim: claim, Status: models.Unsupported}
	}

	status := models.Contradicted
	if valuesMatch(claim.Value, ev.value) {
		status = models.Grounded
	}
	return models.GroundingResult{
		Claim:       claim,
		Status:      status,
		MatchSeq:    ev.seq,
		LedgerValue: ev.value,
	}
}

// buildIndex walks every ledger record and extracts (entity, attribute,
// value) evidence. Later sequence numbers overwrite earlier ones.
func buildIndex(records []models.ToolCallRecord) map[entityKey]evidence {
	index := make(map[entityKey]evidence)

	put := func(seq int, kind models.EntityKind, id, attr string, value any) {
		key := entityKey{kind: kind, id: normalizeID(id), attr: attr}
		if prev, ok := index[key]; ok && prev.seq > seq {
			return
		}
		index[key] = evidence{seq: seq, value: value}
	}

	for _, rec := range records {
		if rec.Result == nil || rec.Result.Table == nil {
			continue
		}
		for _, row := range rec.Result.Table.Rows {
			switch rec.Tool {
			case "flight_search":
				id, _ := row["flight_number"].(string)
				if id == "" {
					continue
				}
				put(rec.Seq, models.EntityFlight, id, "price", row["price"])
				put(rec.Seq, models.EntityFlight, id, "airline", row["airline"])
				from, _ := row["from"].(string)
				to, _ := row["to"].(string)
				put(rec.Seq, models.EntityFlight, id, "route", from+"-"+to)
			case "hotel_search":
				id, _ := row["property_name"].(string)
				if id == "" {
					continue
				}
				put(rec.Seq, models.EntityLodging, id, "price_per_night", row["price_per_night"])
				put(rec.Seq, models.EntityLodging, id, "total_price", row["total_price"])
				put(rec.Seq, models.EntityLodging, id, "rating", row["rating"])
			case "restaurant_search":
				id, _ := row["name"].(string)
				if id == "" {
					continue
				}
				put(rec.Seq, models.EntityRestaurant, id, "name", id)
				put(rec.Seq, models.EntityRestaurant, id, "rating", row["rating"])
			}
		}
	}
	return index
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// valuesMatch compares a claimed value against ledger evidence. Numbers
// match within a small tolerance; strings match case-insensitively.
func valuesMatch(claimed, ledger any) bool {
	cNum, cOK := asFloat(claimed)
	lNum, lOK := asFloat(ledger)
	if cOK && lOK {
		tolerance := math.Max(0.01, math.Abs(lNum)*priceRelTolerance)
		return math.Abs(cNum-lNum) <= tolerance
	}

	cStr, cOK2 := claimed.(string)
	lStr, lOK2 := ledger.(string)
	if cOK2 && lOK2 {
		return strings.EqualFold(strings.TrimSpace(cStr), strings.TrimSpace(lStr))
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
