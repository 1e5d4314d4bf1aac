package discover

import (
	"context"
	"sync"

	"github.com/joelkehle/litreview/internal/llm"
	"github.com/joelkehle/litreview/internal/paper"
)

// Shared fakes for the discovery tests.

type fakeSearch struct {
	mu       sync.Mutex
	results  map[string][]paper.Paper
	fallback []paper.Paper
	err      error
	queries  []string
}

func (f *fakeSearch) SearchPapers(_ context.Context, query string, _, _ int) (paper.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return paper.SearchResult{}, f.err
	}
	if papers, ok := f.results[query]; ok {
		return paper.SearchResult{Papers: papers, Total: len(papers)}, nil
	}
	return paper.SearchResult{Papers: f.fallback, Total: len(f.fallback)}, nil
}

type fakePubMed struct {
	mu     sync.Mutex
	papers []paper.Paper
	err    error
	calls  int
}

func (f *fakePubMed) Search(_ context.Context, _ string, _ int) ([]string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, len(f.papers))
	for i, p := range f.papers {
		ids[i] = p.ID
	}
	return ids, nil
}

func (f *fakePubMed) FetchDetails(_ context.Context, pmids []string) ([]paper.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.papers, nil
}

type fakeGraph struct {
	citations  map[string][]paper.Paper
	references map[string][]paper.Paper
	err        error
}

func (f *fakeGraph) GetCitations(_ context.Context, id string) ([]paper.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.citations[id], nil
}

func (f *fakeGraph) GetReferences(_ context.Context, id string) ([]paper.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.references[id], nil
}

type fakeCompleter struct {
	content string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ ...llm.Option) (llm.Completion, error) {
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Content: f.content, Model: "fake"}, nil
}

func (f *fakeCompleter) ModelName() string { return "fake" }

// promptRecorder stores the last prompt it received.
type promptRecorder struct {
	content string
	seen    *string
}

func (p *promptRecorder) Complete(_ context.Context, prompt string, _ ...llm.Option) (llm.Completion, error) {
	*p.seen = prompt
	return llm.Completion{Content: p.content, Model: "fake"}, nil
}

func (p *promptRecorder) ModelName() string { return "fake" }
