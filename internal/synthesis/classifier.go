// Package synthesis turns a screened paper set into an analysis: study-type
// classification, evidence extraction, consensus quantification, gap
// analysis, and a rendered Markdown report.
package synthesis

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

const (
	strongCitationThreshold = 100
	journalImpactThreshold  = 10000
)

var rctPhrases = []string{
	"randomized controlled trial",
	"randomized trial",
	"random assignment",
}

var metaPhrases = []string{
	"meta-analysis",
	"systematic review and meta-analysis",
}

var observationalPhrases = []string{
	"observational study",
	"cohort study",
	"case-control",
	"cross-sectional",
	"longitudinal study",
}

var rctTokenRe = regexp.MustCompile(`\brct\b`)

var studyTypeChoices = []string{
	"RCT",
	"Meta-Analysis",
	"Systematic Review",
	"Observational",
	"Case Study",
	"Opinion",
	"Other",
}

type Classification struct {
	Paper     paper.Paper `json:"paper"`
	StudyType string      `json:"study_type"`
	Badges    []string    `json:"badges,omitempty"`
}

type Classifier struct{}

// ClassifyStudies labels every paper with a study type, one record at a time.
// Keyword rules decide most papers; only papers no rule matches cost a
// completion call. Badges are computed for every paper regardless of type.
func (c Classifier) ClassifyStudies(ctx context.Context, papers []paper.Paper, completer llm.Completer) ([]Classification, error) {
	log.Printf("litreview synthesis classifying %d studies", len(papers))
	results := make([]Classification, 0, len(papers))
	for _, p := range papers {
		studyType, ok := classifyByKeywords(p)
		if !ok {
			var err error
			studyType, err = c.classifyWithLLM(ctx, p, completer)
			if err != nil {
				return nil, fmt.Errorf("classifying %q: %w", p.Title, err)
			}
		}
		results = append(results, Classification{
			Paper:     p,
			StudyType: studyType,
			Badges:    assignBadges(p),
		})
	}
	return results, nil
}

// classifyByKeywords applies the ordered rule set over lowercase
// title+abstract. The order matters: RCT beats Meta-Analysis beats Systematic
// Review beats Observational.
func classifyByKeywords(p paper.Paper) (string, bool) {
	text := strings.ToLower(p.Text())

	if containsAny(text, rctPhrases) || rctTokenRe.MatchString(text) {
		return "RCT", true
	}
	if containsAny(text, metaPhrases) {
		return "Meta-Analysis", true
	}
	if strings.Contains(text, "systematic review") {
		return "Systematic Review", true
	}
	if strings.Contains(text, "literature review") && strings.Contains(text, "protocol") {
		return "Systematic Review", true
	}
	if containsAny(text, observationalPhrases) {
		return "Observational", true
	}
	return "", false
}

func (Classifier) classifyWithLLM(ctx context.Context, p paper.Paper, completer llm.Completer) (string, error) {
	prompt := fmt.Sprintf(
		"Classify the study type of the paper titled '%s' with abstract '%s'. Output EXACTLY one of: "+
			"RCT, Meta-Analysis, Systematic Review, Observational, Case Study, Opinion, Other.",
		p.Title, p.Abstract)
	resp, err := completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	choice, ok := llm.NormalizeChoice(resp.Content, studyTypeChoices)
	if !ok {
		return "Other", nil
	}
	return choice, nil
}

func assignBadges(p paper.Paper) []string {
	var badges []string
	if p.ReferenceCount > journalImpactThreshold {
		badges = append(badges, "RIGOROUS JOURNAL")
	}
	if p.CitationCount > strongCitationThreshold {
		badges = append(badges, "HIGHLY CITED")
	}
	return badges
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
