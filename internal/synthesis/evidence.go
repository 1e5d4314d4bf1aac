package synthesis

import (
	"context"
	"fmt"
	"log"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

const (
	moderateCitationThreshold = 50
	maxClaims                 = 3
)

var strongTypes = map[string]bool{
	"RCT":               true,
	"Meta-Analysis":     true,
	"Systematic Review": true,
}

var moderateTypes = map[string]bool{
	"Observational": true,
	"Case-Control":  true,
	"Cohort":        true,
}

var weakTypes = map[string]bool{
	"Case Study": true,
	"Opinion":    true,
	"Editorial":  true,
}

type Evidence struct {
	Paper    paper.Paper `json:"paper"`
	Claims   []string    `json:"claims"`
	Strength string      `json:"strength"`
}

type EvidenceExtractor struct {
	classifier Classifier
}

// ExtractEvidence classifies all papers, then extracts up to 3 claims per
// paper (one completion call each, sequential) and rates strength. WEAK items
// are dropped from the result after their extraction call has already been
// made; the claims call is not skipped ahead of rating.
func (e EvidenceExtractor) ExtractEvidence(ctx context.Context, papers []paper.Paper, completer llm.Completer) ([]Evidence, error) {
	log.Printf("litreview synthesis extracting evidence from %d papers", len(papers))
	if len(papers) == 0 {
		return nil, nil
	}

	classifications, err := e.classifier.ClassifyStudies(ctx, papers, completer)
	if err != nil {
		return nil, err
	}
	typeByID := make(map[string]string, len(classifications))
	for _, c := range classifications {
		typeByID[c.Paper.ID] = c.StudyType
	}

	var evidence []Evidence
	for _, p := range papers {
		claims, err := extractClaims(ctx, p, completer)
		if err != nil {
			return nil, fmt.Errorf("extracting claims from %q: %w", p.Title, err)
		}
		studyType, ok := typeByID[p.ID]
		if !ok {
			studyType = "Other"
		}
		strength := rateStrength(studyType, p.CitationCount)
		if strength == "WEAK" {
			continue
		}
		evidence = append(evidence, Evidence{Paper: p, Claims: claims, Strength: strength})
	}
	return evidence, nil
}

func extractClaims(ctx context.Context, p paper.Paper, completer llm.Completer) ([]string, error) {
	prompt := fmt.Sprintf(
		"Extract 1-3 key findings from this paper. Title: %s. Abstract: %s. Return as JSON array.",
		p.Title, p.Abstract)
	resp, err := completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	claims, _ := llm.ParseList(resp.Content)
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}
	return claims, nil
}

// rateStrength applies the fixed rubric. The citation floor dominates every
// other signal, and a weak study type beats high citations.
func rateStrength(studyType string, citations int) string {
	if citations < moderateCitationThreshold {
		return "WEAK"
	}
	if weakTypes[studyType] {
		return "WEAK"
	}
	if strongTypes[studyType] && citations >= strongCitationThreshold {
		return "STRONG"
	}
	if moderateTypes[studyType] {
		return "MODERATE"
	}
	if citations >= moderateCitationThreshold && citations < strongCitationThreshold {
		return "MODERATE"
	}
	return "WEAK"
}
