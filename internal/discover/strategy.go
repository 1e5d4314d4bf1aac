package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

const (
	maxBaseTerms       = 4
	maxSynonymContext  = 10
	minQueriesPerAngle = 3
	maxQueriesPerAngle = 4
)

// StrategySet is one named search angle and its queries. Angles keep a fixed
// order so a run's query plan is reproducible.
type StrategySet struct {
	Name    string   `json:"name"`
	Queries []string `json:"queries"`
}

type StrategyGenerator struct {
	completer llm.Completer
}

func NewStrategyGenerator(completer llm.Completer) *StrategyGenerator {
	return &StrategyGenerator{completer: completer}
}

var searchAngles = []struct {
	name    string
	pattern string
}{
	{"bottlenecks", "(limitation OR bottleneck OR challenge OR barrier OR constraint)"},
	{"whitespace", "(gap OR unexplored OR future research OR opportunity OR open problem)"},
	{"scenarios", "(application OR use case OR implementation OR deployment OR real-world)"},
	{"terminology", ""},
	{"international", "(country OR regional OR international OR global OR cross-cultural)"},
	{"foundational", "(review OR survey OR foundational OR state-of-the-art OR meta-analysis)"},
}

// Generate expands the query into six angles of 3-4 queries each, seeded by
// LLM-extracted synonyms grounded in the survey abstracts.
func (g *StrategyGenerator) Generate(ctx context.Context, query string, surveyPapers []paper.Paper) ([]StrategySet, error) {
	synonyms, err := g.extractSynonyms(ctx, query, surveyPapers)
	if err != nil {
		return nil, err
	}
	baseTerms := buildBaseTerms(query, synonyms)

	sets := make([]StrategySet, 0, len(searchAngles))
	for _, angle := range searchAngles {
		var queries []string
		if angle.name == "terminology" {
			queries = buildTerminologyQueries(baseTerms, query)
		} else {
			queries = buildPatternQueries(baseTerms, angle.pattern, query)
		}
		sets = append(sets, StrategySet{Name: angle.name, Queries: queries})
	}
	return sets, nil
}

func (g *StrategyGenerator) extractSynonyms(ctx context.Context, query string, surveyPapers []paper.Paper) ([]string, error) {
	var abstracts []string
	for _, p := range surveyPapers {
		if len(abstracts) >= maxSynonymContext {
			break
		}
		if p.HasAbstract() {
			abstracts = append(abstracts, strings.TrimSpace(p.Abstract))
		} else if p.Title != "" {
			abstracts = append(abstracts, strings.TrimSpace(p.Title))
		}
	}

	prompt := fmt.Sprintf(
		"Extract 3-5 alternative terms, acronyms, or related phrases for the topic: '%s'. "+
			"Return a JSON array of strings only.\n\nContext:\n%s",
		query, strings.Join(abstracts, "\n"))

	resp, err := g.completer.Complete(ctx, prompt, llm.WithMaxTokens(256), llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("extracting synonyms: %w", err)
	}
	synonyms := parseSynonyms(resp.Content)
	log.Printf("litreview strategy extracted %d synonyms", len(synonyms))
	return synonyms, nil
}

// parseSynonyms accepts a JSON array, a JSON object keyed "synonyms"/
// "terms"/"related_terms", or falls back to comma splitting.
func parseSynonyms(content string) []string {
	content = llm.StripCodeFences(content)
	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err == nil {
		switch v := raw.(type) {
		case []any:
			return cleanTerms(stringItems(v))
		case map[string]any:
			for _, key := range []string{"synonyms", "terms", "related_terms"} {
				if items, ok := v[key].([]any); ok {
					return cleanTerms(stringItems(items))
				}
			}
		}
	}
	return cleanTerms(strings.Split(content, ","))
}

func stringItems(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func cleanTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	var cleaned []string
	for _, term := range terms {
		normalized := strings.TrimSpace(term)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, normalized)
	}
	return cleaned
}

func buildBaseTerms(query string, synonyms []string) []string {
	terms := []string{query}
	for _, synonym := range synonyms {
		if strings.EqualFold(synonym, query) {
			continue
		}
		terms = append(terms, synonym)
		if len(terms) >= maxBaseTerms {
			break
		}
	}
	return terms
}

func buildPatternQueries(terms []string, pattern, query string) []string {
	queries := make([]string, 0, len(terms))
	for _, term := range terms {
		queries = append(queries, term+" AND "+pattern)
	}
	return ensureQueryCount(queries, query, pattern)
}

func buildTerminologyQueries(terms []string, query string) []string {
	var queries []string
	if len(terms) >= 2 {
		queries = append(queries, strings.Join(terms, " OR "))
		queries = append(queries, terms[0]+" OR "+terms[1])
		queries = append(queries, terms[0]+" OR "+terms[len(terms)-1])
		if len(terms) >= 3 {
			queries = append(queries, terms[1]+" OR "+terms[2])
		}
	} else {
		queries = append(queries, query, "("+query+")", `"`+query+`"`)
	}
	return ensureQueryCount(queries, query, "")
}

// ensureQueryCount dedupes, then pads to at least 3 and caps at 4 queries.
func ensureQueryCount(queries []string, query, pattern string) []string {
	seen := make(map[string]struct{}, len(queries))
	var unique []string
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		unique = append(unique, q)
	}
	for len(unique) < minQueriesPerAngle {
		if pattern != "" {
			unique = append(unique, `"`+query+`" AND `+pattern)
		} else {
			unique = append(unique, "("+query+")")
		}
	}
	if len(unique) > maxQueriesPerAngle {
		unique = unique[:maxQueriesPerAngle]
	}
	return unique
}
