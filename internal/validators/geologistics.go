package validators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentbeats/veritrail/internal/fixtures"
	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

const (
	// maxIntraDayHopKm is the longest plausible hop between two
	// consecutive same-day activities.
	maxIntraDayHopKm = 30.0
	// maxLodgingDistanceKm bounds how far lodging may sit from a day's
	// activity centroid.
	maxLodgingDistanceKm = 25.0
	// backtrackFactor flags a day whose walked path is much longer than
	// the direct span of its activities.
	backtrackFactor = 1.8
)

// GeoLogistics flags itinerary segments whose geographic sequence is
// incoherent: oversized hops, backtracking routes, and lodging far from
// the day's activities. Items without coordinates are skipped.
type GeoLogistics struct{}

func (GeoLogistics) Category() string { return "geo_logistics" }

func (GeoLogistics) Evaluate(sub *models.Submission, records []models.ToolCallRecord, _ *scenario.Scenario) models.ValidatorReport {
	var findings []models.Finding
	checks, violations := 0, 0
	routes := buildRouteIndex(records)

	type located struct {
		index int
		item  models.ItineraryItem
		start int
	}
	byDay := make(map[string][]located)
	var days []string
	for i, item := range sub.Itinerary {
		if item.Lat == 0 && item.Lon == 0 {
			continue
		}
		start := -1
		if v, ok := parseClock(item.StartTime); ok {
			start = v
		}
		if _, seen := byDay[item.Day]; !seen {
			days = append(days, item.Day)
		}
		byDay[item.Day] = append(byDay[item.Day], located{index: i, item: item, start: start})
	}
	sort.Strings(days)

	for _, day := range days {
		items := byDay[day]
		sort.Slice(items, func(i, j int) bool { return items[i].start < items[j].start })

		pathKm := 0.0
		for i := 1; i < len(items); i++ {
			prev, cur := items[i-1], items[i]
			hop, routed := hopDistance(routes, prev.item, cur.item)
			pathKm += hop
			checks++
			if hop > maxIntraDayHopKm {
				violations++
				source := "straight-line"
				if routed {
					source = "recorded route"
				}
				findings = append(findings, finding(models.CodeGeoIncoherence, models.SeverityError,
					fmt.Sprintf("/itinerary/%d", cur.index),
					"%.0f km hop (%s) from %q to %q on %s", hop, source, prev.item.Activity, cur.item.Activity, day))
			}
		}

		if len(items) > 2 {
			first, last := items[0], items[len(items)-1]
			span := fixtures.HaversineKm(first.item.Lat, first.item.Lon, last.item.Lat, last.item.Lon)
			checks++
			if span > 0.5 && pathKm > span*backtrackFactor {
				violations++
				findings = append(findings, finding(models.CodeGeoIncoherence, models.SeverityWarning, "",
					"route on %s backtracks: %.0f km walked over a %.0f km span", day, pathKm, span))
			}
		}

		// Lodging proximity to the day's centroid.
		for li, l := range sub.Lodging {
			row := ledgerRow(records, "hotel_search", "property_name", l.PropertyName)
			if row == nil {
				continue
			}
			lat, ok1 := asFloat(row["lat"])
			lon, ok2 := asFloat(row["lon"])
			if !ok1 || !ok2 {
				continue
			}
			var cLat, cLon float64
			for _, it := range items {
				cLat += it.item.Lat
				cLon += it.item.Lon
			}
			cLat /= float64(len(items))
			cLon /= float64(len(items))
			dist := fixtures.HaversineKm(lat, lon, cLat, cLon)
			checks++
			if dist > maxLodgingDistanceKm {
				violations++
				findings = append(findings, finding(models.CodeGeoIncoherence, models.SeverityWarning,
					fmt.Sprintf("/lodging/%d", li),
					"lodging %q sits %.0f km from the %s activities", l.PropertyName, dist, day))
			}
		}
	}

	return models.ValidatorReport{
		Category: "geo_logistics",
		Score:    scoreFromChecks(violations, checks),
		Findings: findings,
	}
}

// buildRouteIndex collects recorded route distances keyed by their
// endpoint pair. Keys are symmetric and the latest record wins.
func buildRouteIndex(records []models.ToolCallRecord) map[string]float64 {
	idx := make(map[string]float64)
	for _, rec := range records {
		if rec.Tool != "route_lookup" || rec.Result == nil || rec.Result.Record == nil {
			continue
		}
		origin, _ := rec.Result.Record["origin"].(string)
		destination, _ := rec.Result.Record["destination"].(string)
		dist, ok := asFloat(rec.Result.Record["distance"])
		if origin == "" || destination == "" || !ok {
			continue
		}
		idx[routeKey(origin, destination)] = dist
	}
	return idx
}

func routeKey(a, b string) string {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	if na > nb {
		na, nb = nb, na
	}
	return na + "|" + nb
}

// hopDistance prefers a route the agent actually looked up over the
// great-circle estimate. Items are matched by location, falling back to
// activity name.
func hopDistance(routes map[string]float64, from, to models.ItineraryItem) (float64, bool) {
	for _, pair := range [][2]string{
		{from.Location, to.Location},
		{from.Activity, to.Activity},
	} {
		if pair[0] == "" || pair[1] == "" {
			continue
		}
		if d, ok := routes[routeKey(pair[0], pair[1])]; ok {
			return d, true
		}
	}
	return fixtures.HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon), false
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
