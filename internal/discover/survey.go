package discover

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/joelkehle/litreview/internal/paper"
)

const surveyFetchLimit = 100
const surveyKeep = 50

type Survey struct {
	scholar SearchSource
	pubmed  PubMedSource
}

func NewSurvey(scholar SearchSource, pubmed PubMedSource) *Survey {
	return &Survey{scholar: scholar, pubmed: pubmed}
}

// Run queries both databases concurrently, joins the pair, and returns the
// top 50 combined papers by citation count. Either source failing fails the
// survey; the other source's result is never silently dropped.
func (s *Survey) Run(ctx context.Context, query string) (paper.SearchResult, error) {
	log.Printf("litreview survey querying both sources for %q", query)

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
		res, err := s.scholar.SearchPapers(ctx, query, surveyFetchLimit, 0)
		scholarPapers, scholarErr = res.Papers, err
	}()
	go func() {
		defer wg.Done()
		pubmedPapers, pubmedErr = s.searchPubMed(ctx, query)
	}()
	wg.Wait()

	if err := errors.Join(scholarErr, pubmedErr); err != nil {
		return paper.SearchResult{}, err
	}

	combined := append(append([]paper.Paper{}, scholarPapers...), pubmedPapers...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CitationCount > combined[j].CitationCount
	})
	if len(combined) > surveyKeep {
		combined = combined[:surveyKeep]
	}

	log.Printf("litreview survey returning %d papers", len(combined))
	return paper.SearchResult{Papers: combined, Total: len(combined)}, nil
}

func (s *Survey) searchPubMed(ctx context.Context, query string) ([]paper.Paper, error) {
	pmids, err := s.pubmed.Search(ctx, query, surveyFetchLimit)
	if err != nil {
		return nil, err
	}
	return s.pubmed.FetchDetails(ctx, pmids)
}
