package validators

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

// Timing flags overlapping time windows, insufficient transfer buffers
// between consecutive activities, and days exceeding the configured
// activity cap.
type Timing struct{}

func (Timing) Category() string { return "timing" }

type timedItem struct {
	index int
	item  models.ItineraryItem
	start int
	end   int
}

func (Timing) Evaluate(sub *models.Submission, _ []models.ToolCallRecord, sc *scenario.Scenario) models.ValidatorReport {
	var findings []models.Finding
	checks, violations := 0, 0

	byDay := make(map[string][]timedItem)
	var days []string
	for i, item := range sub.Itinerary {
		if _, seen := byDay[item.Day]; !seen {
			days = append(days, item.Day)
		}
		start, ok1 := parseClock(item.StartTime)
		end, ok2 := parseClock(item.EndTime)
		ti := timedItem{index: i, item: item, start: -1, end: -1}
		if ok1 && ok2 {
			ti.start, ti.end = start, end
		}
		byDay[item.Day] = append(byDay[item.Day], ti)
	}
	sort.Strings(days)

	for _, day := range days {
		items := byDay[day]

		// Per-day activity cap.
		checks++
		if limit := sc.Budgets.MaxActivitiesPerDay; len(items) > limit {
			violations++
			findings = append(findings, finding(models.CodeTimingViolation, models.SeverityWarning, "",
				"%d activities on %s exceed the daily cap of %d", len(items), day, limit))
		}

		timed := make([]timedItem, 0, len(items))
		for _, ti := range items {
			if ti.start >= 0 {
				timed = append(timed, ti)
			}
		}
		sort.Slice(timed, func(i, j int) bool { return timed[i].start < timed[j].start })

		for i := 1; i < len(timed); i++ {
			prev, cur := timed[i-1], timed[i]
			checks++
			switch {
			case cur.start < prev.end:
				violations++
				findings = append(findings, finding(models.CodeTimingViolation, models.SeverityError,
					fmt.Sprintf("/itinerary/%d", cur.index),
					"%q overlaps %q on %s", cur.item.Activity, prev.item.Activity, day))
			case cur.start-prev.end < sc.Budgets.TransferBufferMin:
				violations++
				findings = append(findings, finding(models.CodeTimingViolation, models.SeverityWarning,
					fmt.Sprintf("/itinerary/%d", cur.index),
					"only %d min between %q and %q on %s (buffer is %d min)",
					cur.start-prev.end, prev.item.Activity, cur.item.Activity, day, sc.Budgets.TransferBufferMin))
			}
		}
	}

	return models.ValidatorReport{
		Category: "timing",
		Score:    scoreFromChecks(violations, checks),
		Findings: findings,
	}
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
