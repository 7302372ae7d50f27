package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/agentbeats/veritrail/internal/models"
)

// terminalWidth returns the display width to wrap to, defaulting to 100
// when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		return w
	}
	return 100
}

// printReport renders a score report for the terminal.
func printReport(w io.Writer, r *models.ScoreReport) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(w, "Run %s  scenario=%s  seed=%d\n", r.RunID, r.ScenarioID, r.RootSeed)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 60))

	if f := r.Failure; f != nil {
		label := "non-fatal"
		if f.Fatal {
			label = "FATAL"
		}
		fmt.Fprintf(w, "%s failure [%s]: %s\n", label, f.Kind, f.Reason)
		if f.Fatal {
			fmt.Fprintf(w, "\nTOTAL: %.4f\n\n", r.Total)
			return
		}
	}

	schema := "ok"
	if !r.SchemaValid {
		schema = fmt.Sprintf("%d issues", len(r.SchemaIssue))
	}
	fmt.Fprintf(w, "%s %s\n", padRight("schema", 18), schema)

	g := r.Grounding
	fmt.Fprintf(w, "%s %.4f  (%d grounded / %d contradicted / %d unsupported)\n",
		padRight("grounding", 18), g.Score, g.Grounded, g.Contradicted, g.Unsupported)

	for _, v := range r.Validators {
		fmt.Fprintf(w, "%s %.4f", padRight(v.Category, 18), v.Score)
		if n := len(v.Findings); n > 0 {
			fmt.Fprintf(w, "  (%d findings)", n)
		}
		fmt.Fprintf(w, "\n")
	}

	ks := make([]int, 0, len(r.Ranking.NDCG))
	for k := range r.Ranking.NDCG {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	for _, k := range ks {
		fmt.Fprintf(w, "%s %.4f\n", padRight(fmt.Sprintf("ndcg@%d", k), 18), r.Ranking.NDCG[k])
	}

	if s := r.Stability; s != nil {
		verdict := "stable"
		if !s.Stable {
			verdict = "UNSTABLE"
		}
		fmt.Fprintf(w, "%s %s  (runs=%d mean=%.4f sd=%.4f spread=%.4f ci=[%.4f,%.4f] threshold=%.4f)\n",
			padRight("stability", 18), verdict, s.Runs, s.Mean, s.StdDev,
			s.Spread, s.CI.Lower, s.CI.Upper, s.Threshold)
	}

	fmt.Fprintf(w, "\nTOTAL: %.4f\n", r.Total)

	width := terminalWidth()
	printed := 0
	for _, v := range r.Validators {
		for _, f := range v.Findings {
			if printed == 0 {
				fmt.Fprintf(w, "\nFindings:\n")
			}
			printed++
			line := fmt.Sprintf("  [%s] %s: %s", f.Severity, f.Code, f.Message)
			if f.Path != "" {
				line += fmt.Sprintf(" (%s)", f.Path)
			}
			fmt.Fprintln(w, truncateLine(line, width))
		}
	}
	fmt.Fprintf(w, "\n")
}

// printTable renders two-column rows with the left column padded to a
// shared width.
func printTable(w io.Writer, rows [][2]string) {
	left := 0
	for _, row := range rows {
		if lw := runewidth.StringWidth(row[0]); lw > left {
			left = lw
		}
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s  %s\n", padRight(row[0], left), row[1])
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncateLine shortens a line to the display width, ending in "…".
func truncateLine(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
