package synthesis

import (
	"strings"
	"testing"

	"github.com/joelkehle/litreview/internal/paper"
)

func reportFixture() ([]paper.Paper, []Evidence, Consensus, GapResult) {
	y1, y2 := 2023, 2024
	papers := []paper.Paper{
		{
			ID: "p1", Title: "Statins and outcomes", Year: &y1, Venue: "The Lancet",
			Authors:     []paper.Author{{Name: "Jane Smith"}, {Name: "Bob Lee"}, {Name: "Ann Wu"}},
			ExternalIDs: paper.ExternalIDs{DOI: "10.1/x"},
		},
		{
			ID: "p2", Title: "Aspirin revisited", Year: &y2,
			Authors: []paper.Author{{Name: "Solo Author"}},
		},
		{ID: "p3", Title: "An anonymous report"},
	}
	evidence := []Evidence{
		{Paper: papers[0], Claims: []string{"statins reduce events"}, Strength: "STRONG"},
	}
	consensus := Consensus{
		Question:   "Do statins reduce cardiovascular events?",
		YesPercent: 40, NoPercent: 20, MixedPercent: 20, PossiblyPercent: 20,
		TotalPapers: 5, Confidence: 0.5,
	}
	gaps := GapResult{
		Themes:       []string{"t1", "t2", "t3", "t4", "t5"},
		Technologies: []string{"x1", "x2", "x3", "x4", "x5"},
		Matrix: [][]int{
			{1, 0, 0, 0, 0}, {0, 0, 0, 0, 0}, {0, 0, 0, 0, 0}, {0, 0, 0, 0, 0}, {0, 0, 0, 0, 0},
		},
		Gaps: []Gap{{Theme: "t1", Tech: "x2", Opportunity: "study this"}},
	}
	return papers, evidence, consensus, gaps
}

func TestGenerateReportDeterministic(t *testing.T) {
	papers, evidence, consensus, gaps := reportFixture()
	g := ReportGenerator{}
	a := g.GenerateReport(papers, evidence, consensus, gaps)
	b := g.GenerateReport(papers, evidence, consensus, gaps)
	if a != b {
		t.Fatal("report is not deterministic")
	}
}

func TestGenerateReportSections(t *testing.T) {
	papers, evidence, consensus, gaps := reportFixture()
	report := ReportGenerator{}.GenerateReport(papers, evidence, consensus, gaps)

	for _, want := range []string{
		"# Do statins reduce cardiovascular events?",
		"## Methods",
		"- Papers screened: 3 included",
		"### Evidence Summary",
		"- statins reduce events [1]",
		"### Consensus Analysis",
		"- YES: 40.0% (N=2 papers)",
		"**Confidence:** 0.50 (based on N=5 papers)",
		"CONSENSUS METER",
		"### Gap Analysis Matrix",
		"**White Space Opportunities:**",
		"1. t1 × x2: study this",
		"## References",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateReportReferences(t *testing.T) {
	papers, evidence, consensus, gaps := reportFixture()
	report := ReportGenerator{}.GenerateReport(papers, evidence, consensus, gaps)

	for _, want := range []string{
		"[1] Jane Smith, et al.. (2023). Statins and outcomes. The Lancet. DOI: 10.1/x",
		"[2] Solo Author. (2024). Aspirin revisited. Unknown Journal. DOI: N/A",
		"[3] Unknown. (n.d.). An anonymous report. Unknown Journal. DOI: N/A",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing reference %q", want)
		}
	}
}

func TestGenerateReportTwoAuthors(t *testing.T) {
	p := paper.Paper{Authors: []paper.Author{{Name: "A One"}, {Name: "B Two"}}}
	if got := formatAuthors(p); got != "A One, B Two" {
		t.Errorf("expected joined pair, got %q", got)
	}
}

func TestGenerateReportGapTable(t *testing.T) {
	_, _, _, gaps := reportFixture()
	table := renderGapTable(gaps)
	if !strings.Contains(table, "| Theme/Tech | x1 | x2 | x3 | x4 | x5 |") {
		t.Errorf("header wrong: %s", table)
	}
	if !strings.Contains(table, "| t1 | 1 | GAP | GAP | GAP | GAP |") {
		t.Errorf("zero cells should render as GAP: %s", table)
	}
}

func TestGenerateReportWithoutConsensusOrGaps(t *testing.T) {
	papers := []paper.Paper{{ID: "p1", Title: "Solo paper"}}
	report := ReportGenerator{}.GenerateReport(papers, nil, Consensus{}, GapResult{})

	if !strings.Contains(report, "# Research Report") {
		t.Error("expected fallback title")
	}
	if strings.Contains(report, "### Consensus Analysis") {
		t.Error("consensus section should be omitted")
	}
	if strings.Contains(report, "### Gap Analysis Matrix") {
		t.Error("gap section should be omitted")
	}
}

func TestMeterLine(t *testing.T) {
	line := meterLine("YES", 50, 10)
	if !strings.Contains(line, strings.Repeat("█", 12)) {
		t.Errorf("expected 12 filled cells for 50%%: %q", line)
	}
	if !strings.Contains(line, strings.Repeat("░", 12)) {
		t.Errorf("expected 12 empty cells for 50%%: %q", line)
	}
	if !strings.Contains(line, "(5)") {
		t.Errorf("expected count 5: %q", line)
	}
}

func TestMeterLineRoundsHalfToEven(t *testing.T) {
	// 3 of 16 papers: 18.75% of 24 cells is exactly 4.5, which rounds to 4.
	line := meterLine("MIXED", 18.75, 16)
	wantBar := strings.Repeat("█", 4) + strings.Repeat("░", 20)
	if !strings.Contains(line, wantBar) {
		t.Errorf("expected 4 filled cells at the 4.5 tie: %q", line)
	}
	if !strings.Contains(line, "(3)") {
		t.Errorf("expected count 3: %q", line)
	}
}

func TestCountFromPercentRoundsHalfToEven(t *testing.T) {
	if got := countFromPercent(25, 10); got != 2 {
		t.Errorf("25%% of 10: expected 2, got %d", got)
	}
	if got := countFromPercent(35, 10); got != 4 {
		t.Errorf("35%% of 10: expected 4, got %d", got)
	}
	if got := countFromPercent(30, 10); got != 3 {
		t.Errorf("30%% of 10: expected 3, got %d", got)
	}
}
