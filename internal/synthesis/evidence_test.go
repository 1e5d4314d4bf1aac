package synthesis

import (
	"context"
	"strings"
	"testing"

	"github.com/joelkehle/litreview/internal/paper"
)

func TestRateStrength(t *testing.T) {
	cases := []struct {
		studyType string
		citations int
		want      string
	}{
		{"RCT", 49, "WEAK"},
		{"Observational", 50, "MODERATE"},
		{"RCT", 100, "STRONG"},
		{"Case Study", 200, "WEAK"},
		{"Meta-Analysis", 99, "MODERATE"},
		{"Systematic Review", 150, "STRONG"},
		{"Cohort", 120, "MODERATE"},
		{"Other", 75, "MODERATE"},
		{"Other", 150, "WEAK"},
		{"Opinion", 500, "WEAK"},
	}
	for _, tc := range cases {
		if got := rateStrength(tc.studyType, tc.citations); got != tc.want {
			t.Errorf("rateStrength(%q, %d): expected %s, got %s", tc.studyType, tc.citations, tc.want, got)
		}
	}
}

func TestExtractEvidenceDropsWeakAfterPayingForTheCall(t *testing.T) {
	// Both papers keyword-classify, so every completion call is a claims call.
	papers := []paper.Paper{
		{ID: "strong", Title: "A randomized controlled trial of X", Abstract: "a", CitationCount: 150},
		{ID: "weak", Title: "A randomized controlled trial of Y", Abstract: "b", CitationCount: 10},
	}
	comp := &fakeCompleter{fn: func(prompt string) (string, error) {
		return `["finding one", "finding two"]`, nil
	}}

	got, err := EvidenceExtractor{}.ExtractEvidence(context.Background(), papers, comp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Paper.ID != "strong" {
		t.Fatalf("expected only the strong paper, got %v", got)
	}
	if got[0].Strength != "STRONG" {
		t.Errorf("expected STRONG, got %s", got[0].Strength)
	}
	// The weak paper's claims call still happened.
	if len(comp.prompts) != 2 {
		t.Errorf("expected 2 claims calls, got %d", len(comp.prompts))
	}
}

func TestExtractEvidenceTruncatesClaims(t *testing.T) {
	papers := []paper.Paper{
		{ID: "1", Title: "A cohort study of Z", Abstract: "a", CitationCount: 60},
	}
	comp := &fakeCompleter{fn: func(string) (string, error) {
		return `["one", "two", "three", "four", "five"]`, nil
	}}
	got, err := EvidenceExtractor{}.ExtractEvidence(context.Background(), papers, comp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got[0].Claims) != 3 {
		t.Errorf("expected 3 claims, got %d", len(got[0].Claims))
	}
}

func TestExtractEvidenceMalformedClaimsJSON(t *testing.T) {
	papers := []paper.Paper{
		{ID: "1", Title: "A cohort study of Z", Abstract: "a", CitationCount: 60},
	}
	comp := &fakeCompleter{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "key findings") {
			return "here are some findings in prose", nil
		}
		return "Other", nil
	}}
	got, err := EvidenceExtractor{}.ExtractEvidence(context.Background(), papers, comp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 evidence item, got %d", len(got))
	}
	if len(got[0].Claims) != 0 {
		t.Errorf("malformed JSON should yield no claims, got %v", got[0].Claims)
	}
}

func TestExtractEvidenceEmptyInput(t *testing.T) {
	got, err := EvidenceExtractor{}.ExtractEvidence(context.Background(), nil, neverCalled(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
