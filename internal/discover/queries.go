package discover

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/joelkehle/litreview/internal/fetch"
	"github.com/joelkehle/litreview/internal/paper"
)

const perQueryLimit = 10

type QueryExecutor struct {
	scholar SearchSource
	pubmed  PubMedSource
	gate    *fetch.Gate
}

func NewQueryExecutor(scholar SearchSource, pubmed PubMedSource, gate *fetch.Gate) *QueryExecutor {
	if gate == nil {
		gate = fetch.NewGate(fetch.DefaultLimit)
	}
	return &QueryExecutor{scholar: scholar, pubmed: pubmed, gate: gate}
}

// Execute runs every query from every strategy set through the bounded fetch
// gate. A failed query is logged and skipped; the rest of the batch still
// lands. Results are deduped by paper ID, first occurrence wins.
func (e *QueryExecutor) Execute(ctx context.Context, strategies []StrategySet) []paper.Paper {
	var queries []string
	for _, set := range strategies {
		queries = append(queries, set.Queries...)
	}
	log.Printf("litreview queries executing %d queries", len(queries))

	tasks := make([]fetch.Task, len(queries))
	for i, q := range queries {
		tasks[i] = func(ctx context.Context) ([]paper.Paper, error) {
			return e.executeQuery(ctx, q)
		}
	}
	batches, errs := fetch.Collect(ctx, e.gate, tasks)
	for i, err := range errs {
		if err != nil {
			log.Printf("litreview queries %q failed: %v", queries[i], err)
		}
	}
	return paper.DedupeByID(fetch.Flatten(batches))
}

// executeQuery hits both sources concurrently and joins the pair, same shape
// as the survey but at the narrower per-query limit.
func (e *QueryExecutor) executeQuery(ctx context.Context, query string) ([]paper.Paper, error) {
	var (
		wg            sync.WaitGroup
		scholarPapers []paper.Paper
		pubmedPapers  []paper.Paper
		scholarErr    error
		pubmedErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := e.scholar.SearchPapers(ctx, query, perQueryLimit, 0)
		scholarPapers, scholarErr = res.Papers, err
	}()
	go func() {
		defer wg.Done()
		pmids, err := e.pubmed.Search(ctx, query, perQueryLimit)
		if err != nil {
			pubmedErr = err
			return
		}
		pubmedPapers, pubmedErr = e.pubmed.FetchDetails(ctx, pmids)
	}()
	wg.Wait()

	if err := errors.Join(scholarErr, pubmedErr); err != nil {
		return nil, err
	}
	return append(scholarPapers, pubmedPapers...), nil
}
