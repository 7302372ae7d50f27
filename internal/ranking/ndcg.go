// Package ranking scores ordered recommendation lists with NDCG@K against
// ground-truth relevance derived from fixture data.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// NDCGAtK computes normalized discounted cumulative gain over the top K
// submitted items. Returns 0 when no item has any relevance, avoiding a
// division by zero; the score is 1 exactly when the submitted order
// matches the ideal relevance order over the cutoff.
func NDCGAtK(ranking []string, relevance map[string]float64, k int) float64 {
	if k <= 0 {
		return 0
	}

	dcg := dcgAt(ranking, relevance, k)

	ideal := make([]string, 0, len(relevance))
	for id := range relevance {
		ideal = append(ideal, id)
	}
	sort.Slice(ideal, func(i, j int) bool {
		if relevance[ideal[i]] != relevance[ideal[j]] {
			return relevance[ideal[i]] > relevance[ideal[j]]
		}
		return ideal[i] < ideal[j]
	})
	idcg := dcgAt(ideal, relevance, k)
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func dcgAt(ranking []string, relevance map[string]float64, k int) float64 {
	dcg := 0.0
	seen := make(map[string]bool, len(ranking))
	for i, id := range ranking {
		if i >= k {
			break
		}
		key := normalizeKey(id)
		// A repeated item earns credit once but still burns its slot.
		if seen[key] {
			continue
		}
		seen[key] = true
		dcg += relevance[key] / math.Log2(float64(i)+2)
	}
	return dcg
}

// Score ranks the submitted lodging list against relevance derived from
// ledger lodging rows and the traveler brief, at each configured cutoff.
func Score(sub *models.Submission, records []models.ToolCallRecord, sc *scenario.Scenario, cutoffs []int) models.RankingScores {
	relevance := DeriveRelevance(records, sc.Brief)

	ranking := make([]string, 0, len(sub.Lodging))
	for _, l := range sub.Lodging {
		ranking = append(ranking, normalizeKey(l.PropertyName))
	}

	scores := models.RankingScores{NDCG: make(map[int]float64, len(cutoffs))}
	for _, k := range cutoffs {
		scores.NDCG[k] = NDCGAtK(ranking, relevance, k)
	}
	return scores
}

// DeriveRelevance assigns each ledger lodging row a relevance grade from
// the traveler brief: budget fit, required amenities, rating, and pet
// policy. The grading is a pure function of the fixture data, so the
// ideal order is ground truth for the scenario.
func DeriveRelevance(records []models.ToolCallRecord, brief scenario.TravelerBrief) map[string]float64 {
	relevance := make(map[string]float64)

	for _, rec := range records {
		if rec.Tool != "hotel_search" || rec.Result == nil || rec.Result.Table == nil {
			continue
		}
		for _, row := range rec.Result.Table.Rows {
			name, _ := row["property_name"].(string)
			if name == "" {
				continue
			}
			relevance[normalizeKey(name)] = gradeRow(row, brief)
		}
	}
	return relevance
}

func gradeRow(row map[string]any, brief scenario.TravelerBrief) float64 {
	grade := 0.0

	if nightly, ok := asFloat(row["price_per_night"]); ok && brief.BudgetCeiling > 0 {
		// Rough nightly allowance: a third of the ceiling spread over
		// the stay is generous enough to separate tiers.
		allowance := brief.BudgetCeiling / 3
		switch {
		case nightly <= allowance:
			grade += 1.5
		case nightly <= allowance*1.25:
			grade += 0.75
		}
	}

	if rating, ok := asFloat(row["rating"]); ok {
		grade += rating / 5
	}

	amenities := toStrings(row["amenities"])
	for _, want := range brief.RequiredAmenities {
		if containsFold(amenities, want) {
			grade += 0.5
		}
	}

	if brief.PetFriendly {
		if pf, ok := row["pet_friendly"].(bool); ok && pf {
			grade += 0.5
		}
	}

	if soldOut, ok := row["sold_out"].(bool); ok && soldOut {
		grade = 0
	}
	return grade
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) []string {
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
