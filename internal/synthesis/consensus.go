package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

const (
	consensusMinPapers      = 5
	consensusFullConfidence = 10
)

// ErrInsufficientData is returned when fewer than 5 papers were relevant to
// the question. Callers must not treat this as an empty result.
var ErrInsufficientData = errors.New("synthesis: insufficient data for consensus")

var stanceChoices = []string{"YES", "NO", "MIXED", "POSSIBLY"}

type Consensus struct {
	Question        string  `json:"question"`
	YesPercent      float64 `json:"yes_percent"`
	NoPercent       float64 `json:"no_percent"`
	MixedPercent    float64 `json:"mixed_percent"`
	PossiblyPercent float64 `json:"possibly_percent"`
	TotalPapers     int     `json:"total_papers"`
	Confidence      float64 `json:"confidence"`
}

type ConsensusAnalyzer struct{}

// QuantifyConsensus runs two sequential passes: a per-paper relevance gate
// (YES/NO), then a per-kept-paper stance vote (YES/NO/MIXED/POSSIBLY). Fails
// with ErrInsufficientData when fewer than 5 papers make it through the gate.
func (ConsensusAnalyzer) QuantifyConsensus(ctx context.Context, papers []paper.Paper, question string, completer llm.Completer) (Consensus, error) {
	log.Printf("litreview synthesis quantifying consensus on %q across %d papers", question, len(papers))

	var relevant []paper.Paper
	for _, p := range papers {
		prompt := fmt.Sprintf(
			"Does the paper '%s' with abstract '%s' provide an answer or evidence regarding the question: '%s'? Answer YES or NO.",
			p.Title, p.Abstract, question)
		resp, err := completer.Complete(ctx, prompt)
		if err != nil {
			return Consensus{}, fmt.Errorf("consensus relevance gate for %q: %w", p.Title, err)
		}
		if normalizeBinary(resp.Content) == "YES" {
			relevant = append(relevant, p)
		}
	}

	counts := map[string]int{"YES": 0, "NO": 0, "MIXED": 0, "POSSIBLY": 0}
	for _, p := range relevant {
		prompt := fmt.Sprintf(
			"What is this paper's answer to the question: '%s'? Based on the abstract, choose exactly one: YES, NO, MIXED, POSSIBLY. Title: %s. Abstract: %s.",
			question, p.Title, p.Abstract)
		resp, err := completer.Complete(ctx, prompt)
		if err != nil {
			return Consensus{}, fmt.Errorf("consensus stance for %q: %w", p.Title, err)
		}
		stance, ok := llm.NormalizeChoice(resp.Content, stanceChoices)
		if !ok {
			stance = "POSSIBLY"
		}
		counts[stance]++
	}

	total := counts["YES"] + counts["NO"] + counts["MIXED"] + counts["POSSIBLY"]
	if total < consensusMinPapers {
		return Consensus{}, fmt.Errorf("%w: %d papers, need %d", ErrInsufficientData, total, consensusMinPapers)
	}

	confidence := float64(total) / consensusFullConfidence
	if confidence > 1.0 {
		confidence = 1.0
	}
	return Consensus{
		Question:        question,
		YesPercent:      float64(counts["YES"]) / float64(total) * 100,
		NoPercent:       float64(counts["NO"]) / float64(total) * 100,
		MixedPercent:    float64(counts["MIXED"]) / float64(total) * 100,
		PossiblyPercent: float64(counts["POSSIBLY"]) / float64(total) * 100,
		TotalPapers:     total,
		Confidence:      confidence,
	}, nil
}

// normalizeBinary is stricter than the stance parser: token scan only, no
// substring fallback, and anything that is not a clear YES counts as NO.
func normalizeBinary(content string) string {
	for _, tok := range llm.UppercaseTokens(content) {
		if tok == "YES" {
			return "YES"
		}
	}
	for _, tok := range llm.UppercaseTokens(content) {
		if tok == "NO" {
			return "NO"
		}
	}
	return "NO"
}

// IsYesNoQuestion reports whether a query reads as a closed yes/no question,
// which is what gates the consensus stage.
func IsYesNoQuestion(query string) bool {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return false
	}
	if strings.Contains(normalized, "yes/no") || strings.Contains(normalized, "yes or no") {
		return true
	}
	if !strings.HasSuffix(normalized, "?") {
		return false
	}
	leading := strings.Fields(normalized)[0]
	switch leading {
	case "is", "are", "am", "was", "were",
		"do", "does", "did",
		"can", "could", "will", "would", "should",
		"has", "have", "had",
		"may", "might", "must":
		return true
	}
	return false
}
