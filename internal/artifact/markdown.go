package artifact

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/agentbeats/veritrail/internal/models"
)

// RenderMarkdown formats a score report as a markdown document.
func RenderMarkdown(r *models.ScoreReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Evaluation Report\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Run | `%s` |\n", r.RunID)
	fmt.Fprintf(&b, "| Scenario | `%s` |\n", r.ScenarioID)
	fmt.Fprintf(&b, "| Root seed | %d |\n", r.RootSeed)
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "| Generated | %s |\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	}
	fmt.Fprintf(&b, "| **Total** | **%.4f** |\n\n", r.Total)

	if r.Failure != nil {
		fmt.Fprintf(&b, "## Failure\n\n")
		fmt.Fprintf(&b, "- Kind: `%s`\n- Fatal: %v\n- Reason: %s\n\n",
			r.Failure.Kind, r.Failure.Fatal, r.Failure.Reason)
		if r.Failure.Fatal {
			return b.String()
		}
	}

	fmt.Fprintf(&b, "## Schema\n\n")
	if r.SchemaValid {
		fmt.Fprintf(&b, "Submission passed schema validation.\n\n")
	} else {
		fmt.Fprintf(&b, "Submission failed schema validation:\n\n")
		for _, issue := range r.SchemaIssue {
			fmt.Fprintf(&b, "- `%s`: %s\n", issue.Path, issue.Message)
		}
		fmt.Fprintf(&b, "\n")
	}

	g := r.Grounding
	fmt.Fprintf(&b, "## Grounding\n\n")
	fmt.Fprintf(&b, "Score %.4f over %d claims: %d grounded, %d contradicted, %d unsupported.\n\n",
		g.Score, len(g.Results), g.Grounded, g.Contradicted, g.Unsupported)
	for _, res := range g.Results {
		if res.Status == models.Grounded {
			continue
		}
		fmt.Fprintf(&b, "- **%s** `%s`: claimed %v", res.Status, res.Claim.FieldPath, res.Claim.Value)
		if res.Status == models.Contradicted {
			fmt.Fprintf(&b, ", ledger has %v (seq %d)", res.LedgerValue, res.MatchSeq)
		}
		fmt.Fprintf(&b, "\n")
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Validators\n\n")
	fmt.Fprintf(&b, "| Category | Score | Findings |\n|---|---|---|\n")
	for _, v := range r.Validators {
		fmt.Fprintf(&b, "| %s | %.4f | %d |\n", v.Category, v.Score, len(v.Findings))
	}
	fmt.Fprintf(&b, "\n")
	for _, v := range r.Validators {
		for _, f := range v.Findings {
			fmt.Fprintf(&b, "- `%s` [%s] %s", f.Code, f.Severity, f.Message)
			if f.Path != "" {
				fmt.Fprintf(&b, " (`%s`)", f.Path)
			}
			fmt.Fprintf(&b, "\n")
		}
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Ranking\n\n")
	ks := make([]int, 0, len(r.Ranking.NDCG))
	for k := range r.Ranking.NDCG {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	for _, k := range ks {
		fmt.Fprintf(&b, "- NDCG@%d: %.4f\n", k, r.Ranking.NDCG[k])
	}
	fmt.Fprintf(&b, "\n")

	if s := r.Stability; s != nil {
		fmt.Fprintf(&b, "## Stability\n\n")
		verdict := "stable"
		if !s.Stable {
			verdict = "unstable"
		}
		fmt.Fprintf(&b, "%d perturbation reruns, mean %.4f, std dev %.4f against threshold %.4f: **%s**.\n\n",
			s.Runs, s.Mean, s.StdDev, s.Threshold, verdict)
		fmt.Fprintf(&b, "Spread %.4f, %.0f%% CI [%.4f, %.4f].\n\n",
			s.Spread, s.CI.ConfidenceLevel*100, s.CI.Lower, s.CI.Upper)
	}

	return b.String()
}

// RenderHTML converts the markdown report to a standalone HTML document.
func RenderHTML(md string) ([]byte, error) {
	engine := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := engine.Convert([]byte(md), &body); err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Evaluation Report</title>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("\n</body>\n</html>\n")
	return doc.Bytes(), nil
}
