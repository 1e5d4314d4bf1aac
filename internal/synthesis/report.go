package synthesis

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/joelkehle/litreview/internal/paper"
)

const meterWidth = 24

type ReportGenerator struct{}

// GenerateReport renders the full Markdown report. Pure and deterministic:
// the same inputs always produce byte-identical output, and no completion
// calls happen here.
func (ReportGenerator) GenerateReport(papers []paper.Paper, evidence []Evidence, consensus Consensus, gaps GapResult) string {
	log.Printf("litreview synthesis generating report for %d papers", len(papers))

	refMap := make(map[string]int, len(papers))
	for i, p := range papers {
		refMap[p.ID] = i + 1
	}

	title := consensus.Question
	if title == "" {
		title = "Research Report"
	}

	lines := []string{
		"# " + title,
		"",
		"## Introduction",
		"",
		"Brief overview of the research question and why it matters.",
		"",
		"## Methods",
		"",
		"**Search Strategy:**",
		"- Databases: Semantic Scholar, PubMed",
		fmt.Sprintf("- Papers screened: %d included", len(papers)),
		"",
		"**Inclusion Criteria:**",
		"- English language",
		"- Has abstract",
		"- Semantic relevance score ≥ 0.6",
		"",
		"## Results",
		"",
		"### Overview",
		fmt.Sprintf("Included %d papers after screening.", len(papers)),
		"",
		"### Evidence Summary",
	}

	for _, item := range evidence {
		ref := refMap[item.Paper.ID]
		for _, claim := range item.Claims {
			lines = append(lines, fmt.Sprintf("- %s [%d]", claim, ref))
		}
	}
	if len(evidence) > 0 {
		lines = append(lines, "")
	}

	if consensus.Question != "" {
		lines = append(lines,
			"### Consensus Analysis",
			fmt.Sprintf("**Question:** %s", consensus.Question),
			"",
			"**Result:**",
			fmt.Sprintf("- YES: %.1f%% (N=%d papers)", consensus.YesPercent, countFromPercent(consensus.YesPercent, consensus.TotalPapers)),
			fmt.Sprintf("- NO: %.1f%% (N=%d papers)", consensus.NoPercent, countFromPercent(consensus.NoPercent, consensus.TotalPapers)),
			fmt.Sprintf("- MIXED: %.1f%% (N=%d papers)", consensus.MixedPercent, countFromPercent(consensus.MixedPercent, consensus.TotalPapers)),
			fmt.Sprintf("- POSSIBLY: %.1f%% (N=%d papers)", consensus.PossiblyPercent, countFromPercent(consensus.PossiblyPercent, consensus.TotalPapers)),
			fmt.Sprintf("**Confidence:** %.2f (based on N=%d papers)", consensus.Confidence, consensus.TotalPapers),
			"",
			renderConsensusMeter(consensus),
			"",
		)
	}

	if len(gaps.Themes) > 0 {
		lines = append(lines,
			"### Gap Analysis Matrix",
			"",
			renderGapTable(gaps),
			"",
			"**White Space Opportunities:**",
		)
		for i, g := range gaps.Gaps {
			lines = append(lines, fmt.Sprintf("%d. %s × %s: %s", i+1, g.Theme, g.Tech, g.Opportunity))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"## Discussion",
		"",
		"### Key Takeaways",
		"1. Consensus and gaps highlight the dominant findings.",
		"2. Evidence strength varies by study type and citations.",
		"3. Opportunities emerge at understudied intersections.",
		"",
		"### Limitations",
		"- Limited to English-language abstracts",
		"- Semantic search may miss domain-specific terminology",
		"",
		"### Future Directions",
		"Further studies should focus on gaps identified above.",
		"",
		"## References",
		"",
	)
	lines = append(lines, renderReferences(papers)...)

	return strings.Join(lines, "\n")
}

func renderReferences(papers []paper.Paper) []string {
	refs := make([]string, 0, len(papers))
	for i, p := range papers {
		year := "n.d."
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		venue := p.Venue
		if venue == "" {
			venue = "Unknown Journal"
		}
		doi := p.ExternalIDs.DOI
		if doi == "" {
			doi = "N/A"
		}
		refs = append(refs, fmt.Sprintf("[%d] %s. (%s). %s. %s. DOI: %s",
			i+1, formatAuthors(p), year, p.Title, venue, doi))
	}
	return refs
}

func formatAuthors(p paper.Paper) string {
	switch len(p.Authors) {
	case 0:
		return "Unknown"
	case 1:
		return p.Authors[0].Name
	case 2:
		return p.Authors[0].Name + ", " + p.Authors[1].Name
	default:
		return p.Authors[0].Name + ", et al."
	}
}

func renderConsensusMeter(c Consensus) string {
	lines := []string{
		"```",
		"┌─────────────────────────────────────────────────┐",
		"│         CONSENSUS METER                         │",
		fmt.Sprintf("│  Question: %-35s│", c.Question),
		"├─────────────────────────────────────────────────┤",
		meterLine("YES", c.YesPercent, c.TotalPapers),
		meterLine("POSSIBLY", c.PossiblyPercent, c.TotalPapers),
		meterLine("MIXED", c.MixedPercent, c.TotalPapers),
		meterLine("NO", c.NoPercent, c.TotalPapers),
		"├─────────────────────────────────────────────────┤",
		fmt.Sprintf("│  Total Papers Analyzed: %-21d│", c.TotalPapers),
		fmt.Sprintf("│  Confidence: %3d%% (based on N=%d)     │", int(c.Confidence*100), c.TotalPapers),
		"└─────────────────────────────────────────────────┘",
		"```",
	}
	return strings.Join(lines, "\n")
}

func meterLine(label string, percent float64, total int) string {
	filled := 0
	if total > 0 {
		filled = int(math.RoundToEven(percent / 100 * meterWidth))
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	return fmt.Sprintf("│  %-8s %s  %3.0f%%  (%d)   │", label, bar, percent, countFromPercent(percent, total))
}

func renderGapTable(gaps GapResult) string {
	header := "| Theme/Tech | " + strings.Join(gaps.Technologies, " | ") + " |"
	divider := "|" + strings.Repeat("------------|", len(gaps.Technologies)+1)
	lines := []string{header, divider}
	for i, theme := range gaps.Themes {
		if i >= len(gaps.Matrix) {
			break
		}
		cells := []string{theme}
		for _, v := range gaps.Matrix[i] {
			if v == 0 {
				cells = append(cells, "GAP")
			} else {
				cells = append(cells, fmt.Sprintf("%d", v))
			}
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func countFromPercent(percent float64, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(percent / 100 * float64(total)))
}
