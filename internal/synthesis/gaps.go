package synthesis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

const matrixDimension = 5

type Gap struct {
	Theme       string `json:"theme"`
	Tech        string `json:"tech"`
	Opportunity string `json:"opportunity"`
}

type GapResult struct {
	Themes       []string `json:"themes"`
	Technologies []string `json:"technologies"`
	Matrix       [][]int  `json:"matrix"`
	Gaps         []Gap    `json:"gaps"`
}

type GapAnalyzer struct{}

// AnalyzeGaps builds a 5x5 theme-by-technology coverage matrix from the
// abstracts and asks for research opportunities at the empty intersections.
// Theme and technology lists are padded with placeholders to always be
// exactly 5 long, so the matrix shape never varies.
func (GapAnalyzer) AnalyzeGaps(ctx context.Context, papers []paper.Paper, completer llm.Completer) (GapResult, error) {
	log.Printf("litreview synthesis analyzing gaps across %d papers", len(papers))
	if len(papers) == 0 {
		return GapResult{Themes: []string{}, Technologies: []string{}, Matrix: [][]int{}, Gaps: []Gap{}}, nil
	}

	abstracts := formatAbstracts(papers)
	themePrompt := fmt.Sprintf(
		"Analyze these %d abstracts. List the top 5 recurring research themes or application scenarios. Return as a JSON list.\n\n%s",
		len(papers), abstracts)
	techPrompt := fmt.Sprintf(
		"Analyze these %d abstracts. List the top 5 distinct technologies, models, or methodologies used. Return as a JSON list.\n\n%s",
		len(papers), abstracts)

	themesResp, err := completer.Complete(ctx, themePrompt)
	if err != nil {
		return GapResult{}, fmt.Errorf("gap themes: %w", err)
	}
	techResp, err := completer.Complete(ctx, techPrompt)
	if err != nil {
		return GapResult{}, fmt.Errorf("gap technologies: %w", err)
	}

	themesRaw, _ := llm.ParseList(themesResp.Content)
	techRaw, _ := llm.ParseList(techResp.Content)
	themes := padToDimension(themesRaw, "Theme")
	technologies := padToDimension(techRaw, "Tech")

	matrix := make([][]int, 0, matrixDimension)
	var gaps []Gap
	for _, theme := range themes {
		row := make([]int, 0, matrixDimension)
		for _, tech := range technologies {
			count := countIntersection(papers, theme, tech)
			row = append(row, count)
			if count == 0 {
				gaps = append(gaps, Gap{Theme: theme, Tech: tech})
			}
		}
		matrix = append(matrix, row)
	}

	if len(gaps) > 0 {
		opportunities, err := suggestOpportunities(ctx, gaps, completer)
		if err != nil {
			return GapResult{}, err
		}
		if len(opportunities) > 0 {
			for i := range gaps {
				gaps[i].Opportunity = opportunities[i%len(opportunities)]
			}
		}
	}

	return GapResult{Themes: themes, Technologies: technologies, Matrix: matrix, Gaps: gaps}, nil
}

func suggestOpportunities(ctx context.Context, gaps []Gap, completer llm.Completer) ([]string, error) {
	pairs := make([]string, 0, len(gaps))
	for _, g := range gaps {
		pairs = append(pairs, fmt.Sprintf("%s × %s", g.Theme, g.Tech))
	}
	prompt := fmt.Sprintf(
		"The following intersections have no research papers: [%s]. Given the properties of these technologies and themes, suggest 3 specific research opportunities or hypotheses to test in these gaps.",
		strings.Join(pairs, ", "))
	resp, err := completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("gap opportunities: %w", err)
	}
	opportunities, _ := llm.ParseList(resp.Content)
	if len(opportunities) == 0 && strings.TrimSpace(resp.Content) != "" {
		opportunities = []string{strings.TrimSpace(resp.Content)}
	}
	return opportunities, nil
}

func formatAbstracts(papers []paper.Paper) string {
	lines := make([]string, 0, len(papers))
	for i, p := range papers {
		lines = append(lines, fmt.Sprintf("Abstract %d: %s", i+1, p.Abstract))
	}
	return strings.Join(lines, "\n")
}

// countIntersection is a pure case-insensitive substring test over
// title+abstract, not tokenized.
func countIntersection(papers []paper.Paper, theme, tech string) int {
	themeLower := strings.ToLower(theme)
	techLower := strings.ToLower(tech)
	count := 0
	for _, p := range papers {
		text := strings.ToLower(p.Text())
		if strings.Contains(text, themeLower) && strings.Contains(text, techLower) {
			count++
		}
	}
	return count
}

func padToDimension(values []string, label string) []string {
	out := values
	if len(out) > matrixDimension {
		out = out[:matrixDimension]
	}
	for len(out) < matrixDimension {
		out = append(out, fmt.Sprintf("%s %d", label, len(out)+1))
	}
	return out
}
