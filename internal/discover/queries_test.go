package discover

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/joelkehle/litreview/internal/fetch"
	"github.com/joelkehle/litreview/internal/paper"
)

func TestExecuteQueriesDedupesAcrossQueries(t *testing.T) {
	scholar := &fakeSearch{
		results: map[string][]paper.Paper{
			"q1": {{ID: "a"}, {ID: "b"}},
			"q2": {{ID: "b"}, {ID: "c"}},
		},
	}
	pubmed := &fakePubMed{}
	exec := NewQueryExecutor(scholar, pubmed, fetch.NewGate(2))

	got := exec.Execute(context.Background(), []StrategySet{
		{Name: "one", Queries: []string{"q1"}},
		{Name: "two", Queries: []string{"q2"}},
	})

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("expected deduped {a b c}, got %v", ids)
	}
}

func TestExecuteQueriesContinuesPastFailures(t *testing.T) {
	scholar := &fakeSearch{err: errors.New("search down")}
	pubmed := &fakePubMed{papers: []paper.Paper{{ID: "PMID:1"}}}
	exec := NewQueryExecutor(scholar, pubmed, nil)

	got := exec.Execute(context.Background(), []StrategySet{
		{Name: "one", Queries: []string{"q1", "q2"}},
	})
	// Scholar failing fails the whole paired query; nothing survives, but the
	// call itself must not error out.
	if len(got) != 0 {
		t.Fatalf("expected no papers, got %v", got)
	}
}

func TestExecuteQueriesMergesBothSources(t *testing.T) {
	scholar := &fakeSearch{fallback: []paper.Paper{{ID: "s1"}}}
	pubmed := &fakePubMed{papers: []paper.Paper{{ID: "PMID:1"}}}
	exec := NewQueryExecutor(scholar, pubmed, nil)

	got := exec.Execute(context.Background(), []StrategySet{
		{Name: "one", Queries: []string{"q1"}},
	})
	if len(got) != 2 {
		t.Fatalf("expected papers from both sources, got %v", got)
	}
}
