package screening

import (
	"context"
	"log"

	"github.com/joelkehle/litreview/internal/paper"
)

type Config struct {
	DateRangeYears     int
	MinAbstractWords   int
	RelevanceThreshold float64
}

// relevanceFilter lets tests stub the embedding-backed scorer.
type relevanceFilter interface {
	Score(ctx context.Context, query string, papers []paper.Paper, threshold float64) ([]paper.Paper, error)
}

type Pipeline struct {
	dedup     Deduplicator
	quality   *QualityChecker
	relevance relevanceFilter
}

func NewPipeline(relevance relevanceFilter) *Pipeline {
	return &Pipeline{
		quality:   NewQualityChecker(),
		relevance: relevance,
	}
}

// Run applies dedup, quality, and relevance in that order and logs the funnel
// counts as a single line.
func (pl *Pipeline) Run(ctx context.Context, papers []paper.Paper, query string, cfg Config) ([]paper.Paper, error) {
	initial := len(papers)

	deduped := pl.dedup.Deduplicate(papers)
	afterDedup := len(deduped)

	qualityFiltered := pl.quality.Filter(deduped, QualityConfig{
		DateRangeYears:   cfg.DateRangeYears,
		MinAbstractWords: cfg.MinAbstractWords,
	})
	afterQuality := len(qualityFiltered)

	relevant, err := pl.relevance.Score(ctx, query, qualityFiltered, cfg.RelevanceThreshold)
	if err != nil {
		return nil, err
	}

	log.Printf("litreview screening funnel: %d → %d dedup → %d quality → %d relevant",
		initial, afterDedup, afterQuality, len(relevant))
	return relevant, nil
}
