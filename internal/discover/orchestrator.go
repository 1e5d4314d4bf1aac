package discover

import (
	"context"
	"log"

	"github.com/joelkehle/litreview/internal/paper"
)

type Orchestrator struct {
	survey    *Survey
	strategy  *StrategyGenerator
	queries   *QueryExecutor
	citations *GraphExplorer
}

func NewOrchestrator(survey *Survey, strategy *StrategyGenerator, queries *QueryExecutor, citations *GraphExplorer) *Orchestrator {
	return &Orchestrator{survey: survey, strategy: strategy, queries: queries, citations: citations}
}

// Run performs the full discovery sequence: broad survey, strategy
// generation, multi-angle query execution, then citation-graph expansion
// around the combined seed set. The result is ID-deduped, seeds first.
func (o *Orchestrator) Run(ctx context.Context, query string) (paper.SearchResult, error) {
	log.Printf("litreview discover starting survey")
	surveyResult, err := o.survey.Run(ctx, query)
	if err != nil {
		return paper.SearchResult{}, err
	}

	log.Printf("litreview discover generating strategy")
	strategies, err := o.strategy.Generate(ctx, query, surveyResult.Papers)
	if err != nil {
		return paper.SearchResult{}, err
	}

	log.Printf("litreview discover executing multi-angle queries")
	queryResults := o.queries.Execute(ctx, strategies)

	seeds := paper.DedupeByID(append(append([]paper.Paper{}, surveyResult.Papers...), queryResults...))

	log.Printf("litreview discover exploring citation graph")
	citationResults, err := o.citations.Explore(ctx, seeds, defaultMaxDepth)
	if err != nil {
		return paper.SearchResult{}, err
	}

	combined := paper.DedupeByID(append(seeds, citationResults...))
	log.Printf("litreview discover returning %d papers", len(combined))
	return paper.SearchResult{Papers: combined, Total: len(combined)}, nil
}
